package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/muesli/reflow/wordwrap"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/torii-cli/torii/color"
	"github.com/torii-cli/torii/history"
	"github.com/torii-cli/torii/icon"
	"github.com/torii-cli/torii/mangadex"
	"github.com/torii-cli/torii/query"
	"github.com/torii-cli/torii/session"
	"github.com/torii-cli/torii/style"
	"github.com/torii-cli/torii/tui"
	"github.com/torii-cli/torii/util"
)

func init() {
	rootCmd.AddCommand(mangadexCmd)
}

// mangadexCmd manages the Mangadex tracker integration.
var mangadexCmd = &cobra.Command{
	Use:   "mangadex",
	Short: "Manage the Mangadex tracker integration",
}

func init() {
	mangadexCmd.AddCommand(mangadexLoginCmd)

	mangadexLoginCmd.Flags().StringP("username", "u", "", "The Mangadex account username")
	mangadexLoginCmd.Flags().StringP("password", "p", "", "The Mangadex account password")
}

// mangadexLoginCmd authenticates against Mangadex with account credentials.
var mangadexLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with the Mangadex service",
	Long: `Authenticate with the Mangadex service using account credentials and a personal OAuth client.
Create one at https://mangadex.org/settings under the API Clients section, then set
mangadex.id and mangadex.secret in the config.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			username = lo.Must(cmd.Flags().GetString("username"))
			password = lo.Must(cmd.Flags().GetString("password"))
		)

		if username == "" {
			handleErr(survey.AskOne(&survey.Input{Message: "Username:"}, &username, survey.WithValidator(survey.Required)))
		}

		if password == "" {
			handleErr(survey.AskOne(&survey.Password{Message: "Password:"}, &password, survey.WithValidator(survey.Required)))
		}

		client := mangadexClient()
		handleErr(client.Login(cmd.Context(), username, password))

		user, err := client.Me(cmd.Context())
		handleErr(err)

		fmt.Printf("%s logged in as %s\n", icon.Get(icon.Success), style.Fg(color.Purple)(user.Attributes.Username))
	},
}

func init() {
	mangadexCmd.AddCommand(mangadexLogoutCmd)
}

// mangadexLogoutCmd revokes the stored Mangadex token material.
var mangadexLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke and discard the stored Mangadex token material",
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(mangadexClient().Session().Logout(cmd.Context()))
		fmt.Printf("%s logged out\n", icon.Get(icon.Success))
	},
}

func init() {
	mangadexCmd.AddCommand(mangadexStatusCmd)
	mangadexStatusCmd.SetOut(os.Stdout)
}

// mangadexStatusCmd reports the current Mangadex session state.
var mangadexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display the current Mangadex session state",
	Run: func(cmd *cobra.Command, args []string) {
		client := mangadexClient()

		if client.Session().State() == session.LoggedOut {
			cmd.Printf("%s not logged in\n", icon.Get(icon.User))
			return
		}

		if err := client.Session().Verify(cmd.Context()); err != nil {
			handleErr(err)
		}

		user, err := client.Me(cmd.Context())
		handleErr(err)

		cmd.Printf("%s logged in as %s\n", icon.Get(icon.User), style.Fg(color.Purple)(user.Attributes.Username))
	},
}

func init() {
	mangadexCmd.AddCommand(mangadexSearchCmd)
	mangadexSearchCmd.SetOut(os.Stdout)
}

// mangadexSearchCmd searches the Mangadex catalog and shows an interactive picker.
var mangadexSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the Mangadex catalog for a manga",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		q := args[0]

		client := mangadexClient()

		erase := util.PrintErasable(fmt.Sprintf("%s Searching for %s...", icon.Get(icon.Progress), style.Fg(color.Yellow)(q)))
		f := client.SearchFetcher(q)
		_, err := f.First(ctx)
		erase()
		handleErr(err)

		if f.Len() == 0 {
			cmd.Printf("%s nothing found for %s\n", icon.Get(icon.Question), style.Fg(color.Yellow)(q))
			return
		}

		manga, err := tui.PickManga(fmt.Sprintf("Results for %s", q), f.Items())
		if errors.Is(err, tui.ErrAborted) {
			return
		}
		handleErr(err)

		printMangaDetails(cmd, manga)
	},
}

// printMangaDetails renders a short summary card for the selected manga.
func printMangaDetails(cmd *cobra.Command, manga *mangadex.Manga) {
	cmd.Printf("%s %s\n", icon.Get(icon.Manga), style.Bold(manga.Name()))
	cmd.Printf("%s %s\n", style.Faint("Mangadex:"), style.Fg(color.Blue)(manga.SiteURL()))

	if manga.Attributes.Status != "" {
		cmd.Printf("%s %s\n", style.Faint("Status:"), manga.Attributes.Status)
	}

	if description := manga.Description(); description != "" {
		width, _, err := util.TerminalSize()
		if err != nil || width > 80 {
			width = 80
		}

		cmd.Println()
		cmd.Println(wordwrap.String(description, width))
	}
}

func init() {
	mangadexCmd.AddCommand(mangadexFollowsCmd)
	mangadexFollowsCmd.SetOut(os.Stdout)
}

// mangadexFollowsCmd displays the authenticated user's followed manga.
var mangadexFollowsCmd = &cobra.Command{
	Use:   "follows",
	Short: "Display the authenticated user's followed manga",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		client := mangadexClient()

		f := client.FollowsFetcher()
		_, err := f.First(ctx)
		handleErr(err)

		for !f.Exhausted() {
			_, err = f.More(ctx)
			handleErr(err)
		}

		if f.Len() == 0 {
			cmd.Printf("%s no followed manga\n", icon.Get(icon.Question))
			return
		}

		for _, manga := range f.Items() {
			status, err := client.ReadingStatusOf(ctx, manga.ID)
			if err != nil {
				status = ""
			}

			line := fmt.Sprintf("%s %s", icon.Get(icon.Manga), style.Bold(manga.Name()))
			if status != "" {
				line = fmt.Sprintf("%s %s", line, style.Faint(strings.ReplaceAll(string(status), "_", " ")))
			}

			cmd.Println(line)
		}
	},
}

// readingStatuses lists the accepted values for the --status flag.
func readingStatuses() []string {
	return []string{
		string(mangadex.ReadingStatusReading),
		string(mangadex.ReadingStatusOnHold),
		string(mangadex.ReadingStatusPlanToRead),
		string(mangadex.ReadingStatusDropped),
		string(mangadex.ReadingStatusReReading),
		string(mangadex.ReadingStatusCompleted),
	}
}

func init() {
	mangadexCmd.AddCommand(mangadexTrackCmd)

	mangadexTrackCmd.Flags().StringP("id", "i", "", "The Mangadex manga ID to track")
	mangadexTrackCmd.Flags().StringP("status", "s", string(mangadex.ReadingStatusReading), "The reading status to assign")

	lo.Must0(mangadexTrackCmd.MarkFlagRequired("id"))
	lo.Must0(mangadexTrackCmd.RegisterFlagCompletionFunc("status", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return readingStatuses(), cobra.ShellCompDirectiveNoFileComp
	}))
}

// mangadexTrackCmd follows a manga and assigns it a reading status.
var mangadexTrackCmd = &cobra.Command{
	Use:   "track",
	Short: "Follow a manga and assign it a reading status",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		var (
			id     = lo.Must(cmd.Flags().GetString("id"))
			status = mangadex.ReadingStatus(lo.Must(cmd.Flags().GetString("status")))
		)

		if !lo.Contains(readingStatuses(), string(status)) {
			handleErr(fmt.Errorf("unknown reading status: %s", status))
		}

		client := mangadexClient()

		manga, err := client.GetByID(ctx, id)
		handleErr(err)

		handleErr(client.Follow(ctx, id))
		handleErr(client.SetReadingStatus(ctx, id, status))

		_ = history.Save(&history.SavedEntry{
			Integration: mangadexIntegration,
			MediaID:     id,
			Name:        manga.Name(),
			Status:      string(status),
		})

		fmt.Printf(
			"%s tracking %s as %s\n",
			icon.Get(icon.Success),
			style.Fg(color.Purple)(manga.Name()),
			style.Fg(color.Green)(strings.ReplaceAll(string(status), "_", " ")),
		)
	},
}

func init() {
	mangadexCmd.AddCommand(mangadexUntrackCmd)

	mangadexUntrackCmd.Flags().StringP("id", "i", "", "The Mangadex manga ID to unfollow")
	lo.Must0(mangadexUntrackCmd.MarkFlagRequired("id"))
}

// mangadexUntrackCmd unfollows a manga.
var mangadexUntrackCmd = &cobra.Command{
	Use:   "untrack",
	Short: "Unfollow a manga and stop tracking it",
	Run: func(cmd *cobra.Command, args []string) {
		id := lo.Must(cmd.Flags().GetString("id"))

		handleErr(mangadexClient().Unfollow(cmd.Context(), id))
		fmt.Printf("%s unfollowed\n", icon.Get(icon.Success))
	},
}

func init() {
	mangadexCmd.AddCommand(mangadexChaptersCmd)

	mangadexChaptersCmd.Flags().StringP("id", "i", "", "The Mangadex manga ID to inspect")
	mangadexChaptersCmd.Flags().StringP("language", "l", "en", "The translated language to count chapters for")

	lo.Must0(mangadexChaptersCmd.MarkFlagRequired("id"))
	mangadexChaptersCmd.SetOut(os.Stdout)
}

// mangadexChaptersCmd displays the chapter breakdown of a manga.
var mangadexChaptersCmd = &cobra.Command{
	Use:   "chapters",
	Short: "Display the volume and chapter breakdown of a manga",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			id       = lo.Must(cmd.Flags().GetString("id"))
			language = lo.Must(cmd.Flags().GetString("language"))
		)

		aggregate, err := mangadexClient().GetAggregate(cmd.Context(), id, language)
		handleErr(err)

		cmd.Printf(
			"%s %s across %s\n",
			icon.Get(icon.Manga),
			style.Bold(util.Quantify(aggregate.ChapterCount(), "chapter", "chapters")),
			util.Quantify(len(aggregate.Volumes), "volume", "volumes"),
		)

		volumes := lo.Keys(aggregate.Volumes)
		slices.Sort(volumes)

		for _, volume := range volumes {
			chapters := lo.Keys(aggregate.Volumes[volume].Chapters)
			slices.Sort(chapters)

			cmd.Printf("%s %s\n", style.Fg(color.Purple)("Volume "+volume), style.Faint(strings.Join(chapters, ", ")))
		}
	},
}
