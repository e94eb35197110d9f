package cmd

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/user/cef/internal/config"
	"github.com/user/cef/internal/db"
	"github.com/user/cef/internal/feed"
	"github.com/user/cef/internal/finder"
	"github.com/user/cef/internal/logging"
)

// session is one finder plus the storage it owns.
type session struct {
	store  *db.Store
	finder *finder.Finder
	logs   io.Closer
}

func (s *session) Close() error {
	if s.logs != nil {
		s.logs.Close()
	}
	return s.store.Close()
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func openSession(cfg *config.Config, logger zerolog.Logger) (*session, error) {
	store, err := db.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	src := feed.NewSource(cfg.Feed.Source, cfg.Feed.Timeout)
	f := finder.New(src, store, finder.WithLogger(logger.With().Str("feed", src.Location()).Logger()))
	return &session{store: store, finder: f}, nil
}

// startSession opens a session for a CLI command and runs the startup
// sequence. A feed failure does not fail the session; callers check
// s.finder.FeedErr().
func startSession(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger, closer, err := logging.Configure(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	s, err := openSession(cfg, logger)
	if err != nil {
		closer.Close()
		return nil, err
	}
	s.logs = closer
	s.finder.Start(cmd.Context())
	return s, nil
}
