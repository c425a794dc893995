package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/torii-cli/torii/anilist"
	"github.com/torii-cli/torii/color"
	"github.com/torii-cli/torii/history"
	"github.com/torii-cli/torii/icon"
	"github.com/torii-cli/torii/session"
	"github.com/torii-cli/torii/style"
	"github.com/torii-cli/torii/tui"
)

func init() {
	rootCmd.AddCommand(anilistCmd)
}

// anilistCmd manages the Anilist tracker integration.
var anilistCmd = &cobra.Command{
	Use:   "anilist",
	Short: "Manage the Anilist tracker integration",
}

func init() {
	anilistCmd.AddCommand(anilistLoginCmd)

	anilistLoginCmd.Flags().StringP("code", "c", "", "Authorization code obtained manually, skips the browser flow")
}

// anilistLoginCmd authenticates against Anilist via the OAuth2 code flow.
var anilistLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the Anilist service via OAuth",
	Long:  "Open your browser to securely log in to Anilist and save the token material to the system keyring.",
	Run: func(cmd *cobra.Command, args []string) {
		client := anilistClient()

		code := lo.Must(cmd.Flags().GetString("code"))
		if code != "" {
			handleErr(client.LoginWithCode(cmd.Context(), code))
		} else {
			handleErr(client.LoginWithBrowser(cmd.Context()))
		}

		viewer, err := client.Viewer(cmd.Context())
		handleErr(err)

		fmt.Printf("%s logged in as %s\n", icon.Get(icon.Success), style.Fg(color.Purple)(viewer.Name))
	},
}

func init() {
	anilistCmd.AddCommand(anilistLogoutCmd)
}

// anilistLogoutCmd revokes the stored Anilist token material.
var anilistLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored Anilist token material",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(anilistClient().Session().Logout(cmd.Context()))
		fmt.Printf("%s logged out\n", icon.Get(icon.Success))
	},
}

func init() {
	anilistCmd.AddCommand(anilistStatusCmd)
	anilistStatusCmd.SetOut(os.Stdout)
}

// anilistStatusCmd reports the current Anilist session state.
var anilistStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the current Anilist session state",
	Run: func(cmd *cobra.Command, args []string) {
		client := anilistClient()

		if client.Session().State() == session.LoggedOut {
			cmd.Printf("%s not logged in\n", icon.Get(icon.User))
			return
		}

		if err := client.Session().Verify(cmd.Context()); err != nil {
			handleErr(err)
		}

		viewer, err := client.Viewer(cmd.Context())
		handleErr(err)

		cmd.Printf("%s logged in as %s\n", icon.Get(icon.User), style.Fg(color.Purple)(viewer.Name))
	},
}

func init() {
	anilistCmd.AddCommand(anilistListCmd)

	anilistListCmd.Flags().StringP("status", "s", "", "Filter entries by list status (current, planning, completed, dropped, paused, repeating)")
	anilistListCmd.SetOut(os.Stdout)
}

// anilistListCmd displays the authenticated user's anime list.
var anilistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display the authenticated user's anime list",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := anilistClient()

		viewer, err := client.Viewer(ctx)
		handleErr(err)

		f := client.ListFetcher(viewer.ID)
		_, err = f.First(ctx)
		handleErr(err)

		for !f.Exhausted() {
			_, err = f.More(ctx)
			handleErr(err)
		}

		statusFilter := strings.ToUpper(lo.Must(cmd.Flags().GetString("status")))

		entries := f.Items()
		if statusFilter != "" {
			entries = lo.Filter(entries, func(e *anilist.MediaListEntry, _ int) bool {
				return string(e.Status) == statusFilter
			})
		}

		if len(entries) == 0 {
			cmd.Printf("%s list is empty\n", icon.Get(icon.Question))
			return
		}

		for _, entry := range entries {
			progress := strconv.Itoa(entry.Progress)
			if entry.Media.Episodes > 0 {
				progress = fmt.Sprintf("%d/%d", entry.Progress, entry.Media.Episodes)
			}

			cmd.Printf(
				"%s %s %s %s\n",
				icon.Get(icon.Anime),
				style.Bold(entry.Media.Name()),
				style.Faint(strings.ToLower(string(entry.Status))),
				style.Fg(color.Green)(progress),
			)
		}
	},
}

func init() {
	anilistCmd.AddCommand(anilistTrackCmd)

	anilistTrackCmd.Flags().IntP("id", "i", 0, "The Anilist media ID to update")
	anilistTrackCmd.Flags().StringP("name", "n", "", "Search Anilist by title and pick the media to update")
	anilistTrackCmd.Flags().IntP("progress", "p", 0, "The number of episodes watched")
	anilistTrackCmd.Flags().StringP("status", "s", string(anilist.MediaListStatusCurrent), "The list status to assign")

	anilistTrackCmd.MarkFlagsOneRequired("id", "name")
	anilistTrackCmd.MarkFlagsMutuallyExclusive("id", "name")
}

// anilistTrackCmd creates or updates a list entry for the given media.
var anilistTrackCmd = &cobra.Command{
	Use:   "track",
	Short: "Create or update the list entry for an Anilist media",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			id       = lo.Must(cmd.Flags().GetInt("id"))
			progress = lo.Must(cmd.Flags().GetInt("progress"))
			status   = anilist.MediaListStatus(strings.ToUpper(lo.Must(cmd.Flags().GetString("status"))))
		)

		client := anilistClient()

		if name := lo.Must(cmd.Flags().GetString("name")); name != "" {
			animes, err := client.SearchByName(cmd.Context(), name)
			handleErr(err)
			if len(animes) == 0 {
				handleErr(fmt.Errorf("no results found on Anilist for %s", name))
			}

			anime, err := tui.PickAnime("Track which anime?", animes)
			if errors.Is(err, tui.ErrAborted) {
				return
			}
			handleErr(err)
			id = anime.ID
		}

		entry, err := client.SaveEntry(cmd.Context(), id, progress, status)
		handleErr(err)

		_ = history.Save(&history.SavedEntry{
			Integration: anilistIntegration,
			MediaID:     strconv.Itoa(id),
			Name:        entry.Media.Name(),
			Progress:    entry.Progress,
			Total:       entry.Media.Episodes,
			Status:      string(entry.Status),
		})

		fmt.Printf(
			"%s tracked %s at %s\n",
			icon.Get(icon.Success),
			style.Fg(color.Purple)(entry.Media.Name()),
			style.Fg(color.Green)(strconv.Itoa(entry.Progress)),
		)
	},
}

func init() {
	anilistCmd.AddCommand(anilistUntrackCmd)

	anilistUntrackCmd.Flags().IntP("entry", "e", 0, "The list entry ID to delete")
	lo.Must0(anilistUntrackCmd.MarkFlagRequired("entry"))
}

// anilistUntrackCmd deletes a list entry.
var anilistUntrackCmd = &cobra.Command{
	Use:   "untrack",
	Short: "Delete a list entry from the authenticated user's anime list",
	Run: func(cmd *cobra.Command, args []string) {
		entryID := lo.Must(cmd.Flags().GetInt("entry"))

		handleErr(anilistClient().DeleteEntry(cmd.Context(), entryID))
		fmt.Printf("%s entry removed\n", icon.Get(icon.Success))
	},
}
