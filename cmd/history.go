package cmd

import (
	"encoding/json"
	"os"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/torii-cli/torii/history"
	"github.com/torii-cli/torii/icon"
	"github.com/torii-cli/torii/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().BoolP("json", "j", false, "Format the output as a JSON string")
	historyCmd.SetOut(os.Stdout)
}

// historyCmd displays the journal of tracking updates, most recent first.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display the journal of recent tracking updates",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		entries := lo.Values(saved)
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].UpdatedAt.After(entries[j].UpdatedAt)
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(entries))
			return
		}

		if len(entries) == 0 {
			cmd.Printf("%s history is empty\n", icon.Get(icon.Question))
			return
		}

		for _, entry := range entries {
			mediaIcon := icon.Anime
			if entry.Integration == mangadexIntegration {
				mediaIcon = icon.Manga
			}

			cmd.Printf(
				"%s %s %s\n",
				icon.Get(mediaIcon),
				entry.String(),
				style.Faint(entry.UpdatedAt.Format("2006-01-02 15:04")),
			)
		}
	},
}
