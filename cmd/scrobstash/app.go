package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/scrobstash/scrobstash/internal/config"
	"github.com/scrobstash/scrobstash/internal/journal"
	"github.com/scrobstash/scrobstash/internal/logging"
	"github.com/scrobstash/scrobstash/internal/scrobble"
	"github.com/scrobstash/scrobstash/internal/scrobble/contents"
	"github.com/scrobstash/scrobstash/internal/scrobble/lastfm"
	"github.com/scrobstash/scrobstash/internal/ui"
)

// app is everything a command needs once configuration is loaded.
type app struct {
	cfg     *config.Config
	cfgPath string
	logger  *slog.Logger
	logFile io.Closer
	theme   ui.Theme
	journal *journal.Store
	manager *scrobble.Manager
}

func newApp() (*app, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg, resolvedPath, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	stateDir, _ := config.StateDir()
	logger, logFile, err := logging.Setup(logging.Options{
		Level:    cfg.Log.Level,
		File:     cfg.Log.File,
		StateDir: stateDir,
	})
	if err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}

	a := &app{
		cfg:     cfg,
		cfgPath: resolvedPath,
		logger:  logger,
		logFile: logFile,
		theme:   ui.GetTheme(cfg.UI.Theme, noColor || cfg.UI.NoColor || os.Getenv("NO_COLOR") != ""),
	}

	opts := []scrobble.ManagerOption{scrobble.WithLogger(logger)}
	if cfg.Journal.Enabled {
		path := cfg.Journal.Path
		if path == "" {
			path = filepath.Join(stateDir, "journal.db")
		}
		store, err := journal.Open(path)
		if err != nil {
			logger.Warn("journal unavailable", slog.String("path", path), slog.Any("err", err))
		} else {
			a.journal = store
			opts = append(opts, scrobble.WithRecorder(store))
		}
	}
	a.manager = scrobble.NewManager(opts...)

	for _, entry := range cfg.Scrobblers {
		if !entry.Enabled {
			logger.Debug("scrobbler disabled", slog.String("id", entry.ID))
			continue
		}
		s, err := buildScrobbler(cfg, entry, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("init scrobbler %s: %w", entry.ID, err)
		}
		a.manager.Register(s)
	}

	logger.Info("starting scrobstash",
		slog.String("config", resolvedPath),
		slog.Int("scrobblers", len(a.manager.Scrobblers())))
	return a, nil
}

func (a *app) Close() {
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Warn("close journal", slog.Any("err", err))
		}
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
}

func buildScrobbler(cfg *config.Config, e config.ScrobblerEntry, logger *slog.Logger) (scrobble.Scrobbler, error) {
	logger = logger.With(slog.String("scrobbler", e.ID))
	switch e.Type {
	case config.TypeContents:
		dests := make(contents.Destinations, 0, len(e.Destinations))
		for _, d := range e.Destinations {
			dest, err := contents.ParseDestination(d.ApplicationName, d.UserAPIURL)
			if err != nil {
				return nil, err
			}
			dests = append(dests, dest)
		}
		layout, err := contents.ParsePathLayout(e.PathLayout)
		if err != nil {
			return nil, err
		}
		return contents.New(e.ID, contents.Config{
			Destinations: dests,
			Dispatcher: contents.DispatcherConfig{
				BaseURL:       e.BaseURL,
				Timeout:       cfg.Timeout(e),
				Layout:        layout,
				Committer:     contents.Committer{Name: e.CommitterName, Email: e.CommitterEmail},
				AcceptCreated: e.AcceptCreated,
				Logger:        logger,
			},
		}), nil
	case config.TypeLastfm:
		return lastfm.New(e.ID, lastfm.Config{
			APIKey:     e.Setting("api_key"),
			APISecret:  e.Setting("api_secret"),
			SessionKey: e.Setting("session_key"),
			Username:   e.Setting("username"),
			APIURL:     e.Setting("api_url"),
			HTTPClient: &http.Client{Timeout: cfg.Timeout(e)},
			Logger:     logger,
		}), nil
	default:
		return nil, fmt.Errorf("unknown scrobbler type %s", e.Type)
	}
}
