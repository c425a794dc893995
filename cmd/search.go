package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/torii-cli/torii/color"
	"github.com/torii-cli/torii/icon"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/provider"
	"github.com/torii-cli/torii/query"
	"github.com/torii-cli/torii/source"
	"github.com/torii-cli/torii/style"
	"github.com/torii-cli/torii/tui"
	"github.com/torii-cli/torii/util"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().BoolP("metadata", "m", true, "Fetch Anilist metadata for the selected show")
	lo.Must0(viper.BindPFlag(key.SearchFetchMetadata, searchCmd.Flags().Lookup("metadata")))

	searchCmd.SetOut(os.Stdout)
}

// resolveSources converts the configured source names into live providers.
func resolveSources() ([]source.Source, error) {
	var sources []source.Source

	for _, name := range viper.GetStringSlice(key.DefaultSources) {
		if name == "" {
			return nil, errors.New("source not set")
		}

		p, ok := provider.Get(name)
		if !ok {
			return nil, fmt.Errorf("source not found: %s", name)
		}

		src, err := p.CreateSource()
		if err != nil {
			return nil, err
		}

		sources = append(sources, src)
	}

	if len(sources) == 0 {
		return nil, errors.New("no sources configured")
	}

	return sources, nil
}

// searchCmd searches the configured providers and shows an interactive picker.
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the configured providers for a show",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		q := args[0]

		sources, err := resolveSources()
		handleErr(err)

		_ = query.Remember(q, 1)

		erase := util.PrintErasable(fmt.Sprintf("%s Searching for %s...", icon.Get(icon.Progress), style.Fg(color.Yellow)(q)))

		var shows []*source.Show
		for _, src := range sources {
			found, err := src.SearchShows(q)
			if err != nil {
				erase()
				handleErr(err)
			}
			shows = append(shows, found...)
		}
		erase()

		if limit := viper.GetInt(key.SearchLimit); limit > 0 && len(shows) > limit {
			shows = shows[:limit]
		}

		if len(shows) == 0 {
			cmd.Printf("%s nothing found for %s\n", icon.Get(icon.Question), style.Fg(color.Yellow)(q))
			return
		}

		show, err := tui.PickShow(fmt.Sprintf("Results for %s", q), shows)
		if errors.Is(err, tui.ErrAborted) {
			return
		}
		handleErr(err)

		if viper.GetBool(key.SearchFetchMetadata) {
			_ = show.BindWithAnilist(ctx, anilistClient())
		}

		printShowDetails(cmd, show)
	},
}

// printShowDetails renders a short summary card for the selected show.
func printShowDetails(cmd *cobra.Command, show *source.Show) {
	cmd.Printf("%s %s\n", icon.Get(icon.Anime), style.Bold(show.Title()))
	cmd.Printf("%s %s\n", style.Faint("Source:"), show.Source.Name())
	cmd.Printf("%s %s\n", style.Faint("Episodes:"), show.EpisodesLabel())

	al, ok := show.Anilist.Get()
	if !ok {
		return
	}

	cmd.Println()
	cmd.Printf("%s %s\n", style.Faint("Anilist:"), style.Fg(color.Blue)(al.SiteURL))
	if al.AverageScore > 0 {
		cmd.Printf("%s %d%%\n", style.Faint("Score:"), al.AverageScore)
	}

	if al.Description != "" {
		width, _, err := util.TerminalSize()
		if err != nil || width > 80 {
			width = 80
		}

		cmd.Println()
		cmd.Println(wordwrap.String(al.Description, width))
	}
}
