package cli

import (
	"encoding/json"
	"strings"

	"github.com/boushrabettir/ginder-backend/internal/crawler"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Build one discovery feed and print it as JSON",
		Args:  cobra.NoArgs,
		RunE:  runFeed,
	}
	cmd.Flags().StringP("languages", "l", "", "Comma-separated languages (default: token profile or random)")
	cmd.Flags().StringP("token", "t", "", "GitHub token (default: github_api.access_token)")
	cmd.Flags().StringSlice("exclude", nil, "Project ids to leave out")
	cmd.Flags().Bool("save", false, "Insert the feed into the catalog")
	RootCmd.AddCommand(cmd)
}

func runFeed(cmd *cobra.Command, args []string) error {
	languagesStr, _ := cmd.Flags().GetString("languages")
	token, _ := cmd.Flags().GetString("token")
	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	save, _ := cmd.Flags().GetBool("save")

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext()
	defer cancel()

	languages := parseLanguages(languagesStr)
	if len(languages) == 0 && token != "" {
		if profile, err := a.Engine.UserLanguages(ctx, token); err == nil {
			languages = profile
		} else {
			a.Logger.Warn(ctx, "Language profile unavailable: %v", err)
		}
	}

	feed, searched, err := a.Engine.BuildFeed(ctx, languages, token, crawler.NewSwipeSet(exclude...))
	if err != nil && len(feed) == 0 {
		return err
	}
	a.Logger.Info(ctx, "Searched topics %v", searched)

	if save {
		if err := a.Engine.SaveProjects(ctx, feed); err != nil {
			a.Logger.Error(ctx, "Some projects were not saved: %v", err)
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(feed)
}

func parseLanguages(raw string) []string {
	var languages []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			languages = append(languages, part)
		}
	}
	return languages
}
