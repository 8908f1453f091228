package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/blogsync/internal/api"
	"github.com/debemdeboas/blogsync/internal/view"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Interval time.Duration
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the post list on screen and refresh it on changes",
		Long: `Keep the post list on screen and refresh it on changes.

The list is refreshed whenever the API reports a change on its event
stream, and every --interval as a fallback. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(rootOpts, cmd, func(app *App) error {
				return watch(cmd.Context(), app, opts.Interval)
			})
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", 30*time.Second, "refresh interval (0 disables polling)")

	return cmd
}

func watch(ctx context.Context, app *App, interval time.Duration) error {
	list := view.NewPostList(app.Store, app.Sync, app.Out.Writer)
	list.Mount(ctx)
	defer list.Unmount()

	refresh := make(chan struct{}, 1)
	trigger := func() {
		select {
		case refresh <- struct{}{}:
		default:
		}
	}

	if w, ok := app.Client.(api.Watcher); ok {
		go followEvents(ctx, app, w, interval, trigger)
	}

	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-tick:
			list.Refresh(ctx)
		case <-refresh:
			list.Refresh(ctx)
		}
	}
}

// followEvents triggers a refresh for every post event, reconnecting after
// interval (or a second) when the stream drops.
func followEvents(ctx context.Context, app *App, w api.Watcher, interval time.Duration, trigger func()) {
	retry := interval
	if retry <= 0 {
		retry = time.Second
	}

	for {
		err := w.Watch(ctx, func(ev api.Event) {
			app.Log.Debug().Str("type", ev.Type).Str("post_id", string(ev.ID)).Msg("Post event")
			trigger()
		})
		if ctx.Err() != nil {
			return
		}
		app.Log.Warn().Err(err).Dur("retry_in", retry).Msg("Event stream lost")

		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}
