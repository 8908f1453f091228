// Package model defines core data structures and types for the blog application.
package model

import (
	"strings"
	"time"
)

type PostID string

// PublishDateLayout is the wire format of Post.PublishDate.
const PublishDateLayout = "2006-01-02T15:04"

type Post struct {
	ID PostID `json:"id"`

	Title         string `json:"title"`
	Description   string `json:"description"`
	FeaturedImage string `json:"featuredImage"`
	PublishDate   string `json:"publishDate"`
	Published     bool   `json:"published"`
}

// PostInput is a Post without its server-assigned identifier.
type PostInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	FeaturedImage string `json:"featuredImage"`
	PublishDate   string `json:"publishDate"`
	Published     bool   `json:"published"`
}

// WithID attaches an identifier to the input, producing a full Post.
func (in PostInput) WithID(id PostID) Post {
	return Post{
		ID:            id,
		Title:         in.Title,
		Description:   in.Description,
		FeaturedImage: in.FeaturedImage,
		PublishDate:   in.PublishDate,
		Published:     in.Published,
	}
}

// Input strips the identifier.
func (p Post) Input() PostInput {
	return PostInput{
		Title:         p.Title,
		Description:   p.Description,
		FeaturedImage: p.FeaturedImage,
		PublishDate:   p.PublishDate,
		Published:     p.Published,
	}
}

func (p *Post) GetTitle() string {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return "Untitled - " + string(p.ID)
	}
	if !p.Published {
		return title + " (draft)"
	}
	return title
}

// PublishTime parses PublishDate. A zero time and false are returned when the
// date is missing or malformed.
func (p *Post) PublishTime() (time.Time, bool) {
	if p.PublishDate == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(PublishDateLayout, p.PublishDate)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
