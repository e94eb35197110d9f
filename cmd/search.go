package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/cef/internal/finder"
)

var (
	jsonOutput      bool
	plaintextOutput bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search events",
	Long:  "Search events by title, description or category, ignoring case. Without a query every event is listed in date order.",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		s, err := startSession(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.finder.FeedErr(); err != nil {
			return err
		}

		results := s.finder.Search(query)
		switch {
		case jsonOutput:
			return outputJSON(results)
		case plaintextOutput:
			return outputPlaintext(results)
		default:
			return outputDefault(results)
		}
	},
}

func outputJSON(results []finder.Entry) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputPlaintext(results []finder.Entry) error {
	for _, r := range results {
		fmt.Printf("%s\t%s\t%s\t%s\t%s\n", bookmarkIcon(r.Bookmarked), r.Date, r.Time, r.Category, r.Title)
	}
	return nil
}

func outputDefault(results []finder.Entry) error {
	if len(results) == 0 {
		fmt.Println("No events found.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%d. %s %s\n   %s • %s", i+1, bookmarkIcon(r.Bookmarked), r.Title, r.Date, r.Time)
		if r.Category != "" {
			fmt.Printf("  [%s]", r.Category)
		}
		fmt.Println()
		if r.Description != "" {
			fmt.Printf("   %s\n", truncate(r.Description, 100))
		}
		fmt.Println()
	}
	return nil
}

func bookmarkIcon(bookmarked bool) string {
	if bookmarked {
		return "[★]"
	}
	return "[ ]"
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
}

func init() {
	searchCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "Output as JSON")
	searchCmd.Flags().BoolVarP(&plaintextOutput, "plaintext", "p", false, "Output as plaintext")
	rootCmd.AddCommand(searchCmd)
}
