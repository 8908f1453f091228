package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/view"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd, func(app *App) error {
				ctx := cmd.Context()
				posts, err := app.Sync.ListPosts(ctx).Wait(ctx)
				if err != nil {
					return requestError("list posts", err)
				}
				return app.Out.Print(posts, view.RenderPostList(app.Store.State()))
			})
		},
	}
}

// NewShowCommand creates the show command.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a single post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd, func(app *App) error {
				ctx := cmd.Context()
				editor := view.NewEditor(app.Sync)
				post, err := editor.Open(ctx, model.PostID(args[0])).Wait(ctx)
				if err != nil {
					return requestError("show post "+args[0], err)
				}
				if err := editor.Close(); err != nil {
					return err
				}
				return app.Out.Print(post, view.RenderPost(post))
			})
		},
	}
}

// postFlags are the editable fields shared by add and update.
type postFlags struct {
	title       string
	description string
	image       string
	publishDate string
	published   bool
}

func (f *postFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "post title")
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "post description")
	cmd.Flags().StringVar(&f.image, "image", "", "featured image URL")
	cmd.Flags().StringVar(&f.publishDate, "publish-date", "", "publish date ("+model.PublishDateLayout+")")
	cmd.Flags().BoolVar(&f.published, "published", false, "mark the post as published")
}

// apply copies the flags the user set onto post.
func (f *postFlags) apply(cmd *cobra.Command, post *model.Post) {
	set := cmd.Flags().Changed
	if set("title") {
		post.Title = f.title
	}
	if set("description") {
		post.Description = f.description
	}
	if set("image") {
		post.FeaturedImage = f.image
	}
	if set("publish-date") {
		post.PublishDate = f.publishDate
	}
	if set("published") {
		post.Published = f.published
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	flags := &postFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a post",
		Example: `  blog add --title "Hello" --publish-date 2030-01-01T09:00 --published`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd, func(app *App) error {
				var post model.Post
				flags.apply(cmd, &post)

				editor := view.NewEditor(app.Sync)
				created, err := editor.Create(cmd.Context(), post.Input())
				if err != nil {
					if !app.Out.JSON() {
						fprintln(cmd.ErrOrStderr(), editor.Render(app.Store.State()))
					}
					return requestError("add post", err)
				}
				return app.Out.Print(created, fmt.Sprintf("Created post %s", created.ID))
			})
		},
	}
	flags.register(cmd)

	return cmd
}

// NewUpdateCommand creates the update command. Unset flags keep the
// server's current values.
func NewUpdateCommand(opts *RootOptions) *cobra.Command {
	flags := &postFlags{}

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd, func(app *App) error {
				ctx := cmd.Context()
				id := model.PostID(args[0])

				editor := view.NewEditor(app.Sync)
				post, err := editor.Open(ctx, id).Wait(ctx)
				if err != nil {
					return requestError("load post "+args[0], err)
				}
				flags.apply(cmd, &post)

				saved, err := editor.Save(ctx, post)
				if err != nil {
					if !app.Out.JSON() {
						fprintln(cmd.ErrOrStderr(), editor.Render(app.Store.State()))
					}
					_ = editor.Close()
					return requestError("update post "+args[0], err)
				}
				return app.Out.Print(saved, fmt.Sprintf("Updated post %s", saved.ID))
			})
		},
	}
	flags.register(cmd)

	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a post",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd, func(app *App) error {
				ctx := cmd.Context()
				deleted, err := app.Sync.DeletePost(ctx, model.PostID(args[0])).Wait(ctx)
				if err != nil {
					return requestError("delete post "+args[0], err)
				}
				return app.Out.Print(deleted, fmt.Sprintf("Deleted post %s", deleted.ID))
			})
		},
	}
}
