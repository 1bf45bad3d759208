package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/auragen/internal/aura"
	"github.com/five82/auragen/internal/config"
	"github.com/five82/auragen/internal/llm"
	"github.com/five82/auragen/internal/logging"
	"github.com/five82/auragen/internal/meditation"
	"github.com/five82/auragen/internal/prefs"
	"github.com/five82/auragen/internal/scriptcache"
	"github.com/five82/auragen/internal/scriptgen"
	"github.com/five82/auragen/internal/server"
	"github.com/five82/auragen/internal/state"
	"github.com/five82/auragen/internal/ui"
)

// Options configure the auragen application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/auragen/prefs.toml
}

// Run boots the meditation TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewForComponent(cfg.Logging.Level, cfg.Logging.Format, cfg.LogPath("tui"), "tui", false)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load prefs", zap.Error(err))
	}

	client, err := aura.NewClient(cfg.Client.APIBind, cfg.Client.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init aura client: %w", err)
	}

	store := &state.Store{}

	pollCtx, stopPoller := context.WithCancel(ctx)
	pollerDone := StartPoller(pollCtx, store, client, cfg.Client.PollInterval, logger)
	defer func() {
		stopPoller()
		<-pollerDone
	}()

	source := NewScriptSource(client, store, cfg.Client.LoadingDelay, logger)

	return ui.Run(ui.Options{
		Context:        ctx,
		Provider:       source,
		Store:          store,
		Prefs:          userPrefs,
		PrefsPath:      opts.PrefsPath,
		SessionSeconds: cfg.Client.SessionSeconds,
		StatusTick:     cfg.Client.PollInterval,
		ServiceURL:     client.BaseURL(),
		Logger:         logger,
	})
}

// Serve runs the script service until ctx is cancelled.
func Serve(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.NewForComponent(cfg.Logging.Level, cfg.Logging.Format, cfg.LogPath("server"), "server", true)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	completer, err := llm.New(cfg.Server.LLM())
	if err != nil {
		return fmt.Errorf("init llm client: %w", err)
	}
	if !cfg.Server.KeyConfigured() {
		logger.Warn("no API key configured; script requests will fail",
			zap.String("env", cfg.Server.Provider.EnvVar()))
	}

	var cache server.ScriptCache
	if cfg.Server.CachePath != "" {
		c, err := scriptcache.Open(cfg.Server.CachePath)
		if err != nil {
			return fmt.Errorf("open script cache: %w", err)
		}
		defer func() { _ = c.Close() }()
		cache = c
	}

	srv := server.New(server.Options{
		Listen:        cfg.Server.Listen,
		Provider:      cfg.Server.Provider,
		Model:         completer.Model(),
		KeyConfigured: cfg.Server.KeyConfigured(),
		CacheTTL:      cfg.Server.CacheTTL,
	}, scriptgen.New(completer, logger), cache, logger)
	return srv.Run(ctx)
}

// PrintScript writes a script for location to w, one sentence per line,
// preferring the service and falling back to the built-in scripts.
func PrintScript(ctx context.Context, opts Options, location string, w io.Writer) error {
	location = strings.TrimSpace(location)
	if location == "" {
		return fmt.Errorf("print script: %w", meditation.ErrEmptyLocation)
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, err := aura.NewClient(cfg.Client.APIBind, cfg.Client.RequestTimeout)
	if err != nil {
		return fmt.Errorf("init aura client: %w", err)
	}
	delivery := NewScriptSource(client, nil, 0, nil).Generate(ctx, location)
	return writeDelivery(w, location, delivery)
}
