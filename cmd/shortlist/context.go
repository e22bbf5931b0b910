package main

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"shortlist/internal/catalog/omdb"
	"shortlist/internal/catalog/tmdb"
	"shortlist/internal/config"
	"shortlist/internal/enrich"
	"shortlist/internal/logging"
	"shortlist/internal/notifications"
	"shortlist/internal/watchlist"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.logger = logging.NewNop()
			return
		}
		c.logger = logger
	})
	return c.logger
}

// withStore opens the watch-list store for the duration of one command.
func (c *commandContext) withStore(fn func(*watchlist.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := watchlist.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) newEnricher(store *watchlist.Store) (*enrich.Enricher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.Enrichment.RequestTimeout) * time.Second}

	var searcher tmdb.Searcher
	if strings.TrimSpace(cfg.TMDB.APIKey) != "" {
		client, err := tmdb.New(cfg.TMDB.APIKey, cfg.TMDB.BaseURL, cfg.TMDB.Language, tmdb.WithHTTPClient(httpClient))
		if err != nil {
			return nil, err
		}
		searcher = client
	}

	var ratings enrich.RatingsLookup
	if cfg.HasSecondaryCatalog() {
		client, err := omdb.New(cfg.OMDB.APIKey, cfg.OMDB.BaseURL, omdb.WithHTTPClient(httpClient))
		if err != nil {
			return nil, err
		}
		ratings = client
	}

	return enrich.New(store, searcher, ratings, enrich.Options{
		Delay:    time.Duration(cfg.Enrichment.DelayMS) * time.Millisecond,
		Notifier: notifications.NewService(cfg),
		Logger:   c.ensureLogger(),
	}), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
