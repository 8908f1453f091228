package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/debemdeboas/blogsync/internal/api"
	"github.com/debemdeboas/blogsync/internal/blog"
	"github.com/debemdeboas/blogsync/internal/config"
	"github.com/debemdeboas/blogsync/internal/httpx"
	"github.com/debemdeboas/blogsync/internal/logger"
	"github.com/debemdeboas/blogsync/internal/model"
	"github.com/debemdeboas/blogsync/internal/store"
)

// App is the wired client: configuration, logging, the blog store and the
// synchronizer feeding it.
type App struct {
	Config *config.Config
	Log    zerolog.Logger
	Client api.Client
	Store  *store.Store[blog.State]
	Sync   *blog.Synchronizer
	Out    *OutputFormatter
}

func newApp(opts *RootOptions, cmd *cobra.Command) (*App, error) {
	config.LoadEnv()
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid environment", err)
	}
	if opts.APIURL != "" {
		cfg.API.BaseURL = opts.APIURL
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	log := logger.NewWithWriter(cfg.Logging.Level, zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), TimeFormat: time.RFC3339})
	config.SetLogger(logger.Component(log, "config"))

	app := &App{
		Config: cfg,
		Log:    log,
		Out: &OutputFormatter{
			Format: opts.Format,
			Color:  opts.Color,
			Writer: cmd.OutOrStdout(),
		},
	}

	newClient := opts.newClient
	if newClient == nil {
		newClient = httpClient
	}
	if app.Client, err = newClient(app); err != nil {
		return nil, WrapExitError(ExitCommandError, "create API client", err)
	}

	var seed []model.Post
	if cfg.Store.Seed {
		seed = model.SeedPosts()
	}
	app.Store = store.New(cfg.Store.Name, blog.Reduce, blog.InitialState(seed),
		store.WithLogger(logger.Component(log, "store")))
	app.Sync = blog.NewSynchronizer(app.Store, app.Client,
		blog.WithLogger(logger.Component(log, "synchronizer")))

	return app, nil
}

func httpClient(app *App) (api.Client, error) {
	c := app.Config.API
	hc, err := httpx.New(c.BaseURL,
		httpx.WithTimeout(c.Timeout()),
		httpx.WithRetryPolicy(httpx.RetryPolicy{
			MaxRetries: c.MaxRetries,
			BaseDelay:  c.RetryBaseDelay(),
			MaxDelay:   c.RetryMaxDelay(),
			Jitter:     c.RetryJitter,
		}),
		httpx.WithLogger(logger.Component(app.Log, "httpx")),
	)
	if err != nil {
		return nil, err
	}
	return api.NewHTTPClient(hc), nil
}

// Close waits for in-flight requests and tears the store down.
func (a *App) Close() {
	a.Sync.Wait()
	if err := a.Store.Close(); err != nil {
		a.Log.Debug().Err(err).Msg("Store close")
	}
}

// run builds the App, calls fn and closes the App.
func run(opts *RootOptions, cmd *cobra.Command, fn func(*App) error) error {
	app, err := newApp(opts, cmd)
	if err != nil {
		return err
	}
	defer app.Close()
	return fn(app)
}

func fprintln(w io.Writer, a ...any) {
	fmt.Fprintln(w, a...)
}
