package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/cef/internal/logging"
	"github.com/user/cef/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "cef",
	Short: "College Event Finder",
	Long:  "Browse, search and bookmark college events from a JSON event feed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		// Keep log lines off the alternate screen.
		logCfg := cfg.Log
		logCfg.File = cfg.LogPath()
		logger, closer, err := logging.Configure(logCfg)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer closer.Close()

		s, err := openSession(cfg, logger)
		if err != nil {
			return err
		}
		defer s.Close()

		return tui.Run(s.finder, cfg.Feed.Source)
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (default: ~/.cef)")
	rootCmd.PersistentFlags().String("feed", "", "Event feed file or URL (default: data/events.json)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")
}
