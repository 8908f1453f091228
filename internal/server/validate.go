package server

import (
	"strings"
	"time"

	"github.com/debemdeboas/blogsync/internal/model"
)

// validate returns field messages for in, or nil when it is acceptable.
// Publish dates are compared at minute precision in local time.
func (s *Server) validate(in model.PostInput) map[string]string {
	fields := make(map[string]string)

	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "title is required"
	}

	switch date := strings.TrimSpace(in.PublishDate); {
	case date == "":
		fields["publishDate"] = "publish date is required"
	default:
		t, err := time.ParseInLocation(model.PublishDateLayout, date, time.Local)
		if err != nil {
			fields["publishDate"] = "publish date must look like " + model.PublishDateLayout
		} else if t.Before(s.now().Truncate(time.Minute)) {
			fields["publishDate"] = "publish date must not be in the past"
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}
