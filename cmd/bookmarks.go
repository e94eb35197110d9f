package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/cef/internal/bookmarks"
	"github.com/user/cef/internal/db"
	"github.com/user/cef/internal/events"
)

var bookmarksJSON bool

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "List bookmarked events",
	Long:  "List bookmarked events in date order. Bookmarks whose event is no longer in the feed are reported separately.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := startSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.finder.FeedErr(); err != nil {
			warn("%v", err)
		}

		results := s.finder.Bookmarked()
		if bookmarksJSON {
			return outputJSON(results)
		}
		if len(results) == 0 {
			fmt.Println("No bookmarked events.")
		} else if err := outputDefault(results); err != nil {
			return err
		}

		if orphans := s.finder.Orphans(); len(orphans) > 0 {
			fmt.Printf("%d bookmark(s) no longer match an event:\n", len(orphans))
			for _, id := range orphans {
				fmt.Printf("  - %s\n", id)
			}
		}

		if line := lastSaved(s.store); line != "" {
			fmt.Println(line)
		}
		return nil
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <title> <date> <time> | toggle <identity>",
	Short: "Bookmark or un-bookmark an event",
	Long:  "Flip the bookmark of the event identified by title, date and time, or by its identity string \"title|date|time\".",
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 && len(args) != 3 {
			return fmt.Errorf("expected <title> <date> <time> or a single identity, got %d argument(s)", len(args))
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if len(args) == 3 {
			id = events.IdentityOf(events.Event{Title: args[0], Date: args[1], Time: args[2]})
		}

		s, err := startSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if _, ok := s.finder.Detail(id); !ok && !s.finder.IsBookmarked(id) {
			warn("no event matches %q", id)
		}

		on, err := s.finder.ToggleBookmark(id)
		if err != nil {
			return fmt.Errorf("failed to save bookmark: %w", err)
		}
		if on {
			fmt.Printf("Bookmarked: %s\n", id)
		} else {
			fmt.Printf("Removed bookmark: %s\n", id)
		}
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every bookmark",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := startSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		n := s.finder.BookmarkCount()
		if err := s.finder.ClearBookmarks(); err != nil {
			return fmt.Errorf("failed to clear bookmarks: %w", err)
		}
		fmt.Printf("Cleared %d bookmark(s).\n", n)
		return nil
	},
}

// lastSaved describes when the bookmark set was last written, or returns
// "" when it never was.
func lastSaved(store *db.Store) string {
	at, ok, err := store.UpdatedAt(bookmarks.StorageKey)
	if err != nil {
		warn("could not read bookmark timestamp: %v", err)
		return ""
	}
	if !ok {
		return ""
	}
	return "Last saved: " + at.Local().Format("2006-01-02 15:04")
}

func init() {
	bookmarksCmd.Flags().BoolVarP(&bookmarksJSON, "json", "j", false, "Output as JSON")
	bookmarksCmd.AddCommand(toggleCmd)
	bookmarksCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(bookmarksCmd)
}
