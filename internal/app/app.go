package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/five82/wanreader/internal/config"
	"github.com/five82/wanreader/internal/export"
	"github.com/five82/wanreader/internal/logging"
	"github.com/five82/wanreader/internal/prefs"
	"github.com/five82/wanreader/internal/render"
	"github.com/five82/wanreader/internal/screen"
	"github.com/five82/wanreader/internal/session"
	"github.com/five82/wanreader/internal/task"
	"github.com/five82/wanreader/internal/ui"
	"github.com/five82/wanreader/internal/wan"
)

// Options configure the wanreader application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/wanreader/prefs.toml
	Debug      bool   // log at debug level
}

// Env holds every collaborator built from the config. The TUI and the
// headless commands share it.
type Env struct {
	Config   config.Config
	Log      zerolog.Logger
	Jar      *session.Jar
	Client   *wan.Client
	Exec     *task.Executor
	Reader   *render.Reader
	Exporter *export.Exporter

	logFile io.Closer
}

// Open loads the config and builds the collaborators in dependency order:
// log file, cookie jar, API client, executor, reader and exporter.
func Open(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log, logFile, err := logging.Open(cfg.LogPath, opts.Debug)
	if err != nil {
		return nil, err
	}

	jar, err := session.Open(cfg.CookiePath, log)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("open session: %w", err)
	}

	client, err := wan.NewClient(cfg.BaseURL,
		wan.WithJar(jar),
		wan.WithTimeout(cfg.Timeout),
		wan.WithRateLimit(cfg.RequestsPerSecond),
		wan.WithLogger(log),
	)
	if err != nil {
		_ = logFile.Close()
		return nil, fmt.Errorf("init client: %w", err)
	}

	return &Env{
		Config:   cfg,
		Log:      log,
		Jar:      jar,
		Client:   client,
		Exec:     task.NewExecutor(cfg.Workers),
		Reader:   render.NewReader(&http.Client{Timeout: cfg.Timeout}, wan.UserAgent, log),
		Exporter: export.New(cfg.ExportDir),
		logFile:  logFile,
	}, nil
}

// Deps returns the collaborators screen controllers are built from.
func (e *Env) Deps() screen.Deps {
	return screen.Deps{
		API:      e.Client,
		Exec:     e.Exec,
		Log:      e.Log,
		Reader:   e.Reader,
		Exporter: e.Exporter,
	}
}

// SignedIn reports whether a stored session cookie exists. The server may
// still reject it; the first failing call says so.
func (e *Env) SignedIn() bool {
	return len(e.Jar.Names()) > 0
}

// Close waits for in-flight work and closes the log file.
func (e *Env) Close() error {
	e.Exec.Wait()
	if e.logFile == nil {
		return nil
	}
	return e.logFile.Close()
}

// Run boots the TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) (err error) {
	env, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, env.Close())
	}()

	userPrefs, prefsErr := prefs.Load(opts.PrefsPath)
	if prefsErr != nil {
		env.Log.Warn().Err(prefsErr).Msg("load preferences")
	}

	env.Log.Info().
		Str("base_url", env.Config.BaseURL).
		Bool("signed_in", env.SignedIn()).
		Msg("starting")

	err = ui.Run(ui.Options{
		Context:   ctx,
		Deps:      env.Deps(),
		Forget:    env.Jar.Clear,
		SignedIn:  env.SignedIn(),
		ThemeName: userPrefs.Theme,
		Username:  userPrefs.Username,
		PrefsPath: opts.PrefsPath,
		LogPath:   env.Config.LogPath,
	})
	env.Log.Info().Msg("stopped")
	return err
}
