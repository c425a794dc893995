package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/torii-cli/torii/anilist"
	"github.com/torii-cli/torii/filesystem"
	"github.com/torii-cli/torii/inline"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/query"
)

func init() {
	rootCmd.AddCommand(inlineCmd)

	inlineCmd.Flags().StringP("query", "q", "", "The search query to execute")
	inlineCmd.Flags().StringP("show", "s", "", "Criteria for selecting a specific show from the search results")
	inlineCmd.Flags().BoolP("json", "j", false, "Format the command output as a JSON object")
	inlineCmd.Flags().BoolP("fetch-metadata", "f", false, "Fetch and include Anilist metadata in the output")
	inlineCmd.Flags().BoolP("include-anilist", "A", false, "Include Anilist record data in the structured output")
	lo.Must0(viper.BindPFlag(key.SearchFetchMetadata, inlineCmd.Flags().Lookup("fetch-metadata")))

	inlineCmd.Flags().StringP("output", "o", "", "Specify a file path to write the command output")

	lo.Must0(inlineCmd.MarkFlagRequired("query"))

	_ = inlineCmd.RegisterFlagCompletionFunc("query", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return query.SuggestMany(toComplete), cobra.ShellCompDirectiveNoFileComp
	})
}

// parseShowFlag translates the --show flag into a picker description.
func parseShowFlag(s string) (kind, value string, err error) {
	switch {
	case s == "first" || s == "last":
		return s, "", nil
	case strings.HasPrefix(s, "exact="):
		return "exact", strings.TrimPrefix(s, "exact="), nil
	default:
		if _, convErr := strconv.ParseUint(s, 10, 16); convErr == nil {
			return "index", s, nil
		}
		return "", "", errors.New("show selector must be first, last, exact=<name> or an index")
	}
}

// inlineCmd executes the application in non-interactive, scriptable inline mode.
var inlineCmd = &cobra.Command{
	Use:   "inline",
	Short: "Execute the application in non-interactive, scriptable inline mode",
	Long: `Initialize the application for automated execution and data extraction using inline mode.

Show selectors:
  first - first show in the list
  last - last show in the list
  exact=<name> - select show by exact name
  [number] - select show by index (starting from 0)

When using the json flag the show selector could be omitted. That way, it will select all shows`,
	PreRun: func(cmd *cobra.Command, args []string) {
		asJson, _ := cmd.Flags().GetBool("json")

		if !asJson {
			lo.Must0(cmd.MarkFlagRequired("show"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		sources, err := resolveSources()
		handleErr(err)

		q := lo.Must(cmd.Flags().GetString("query"))

		output := lo.Must(cmd.Flags().GetString("output"))
		var writer io.Writer
		if output != "" {
			writer, err = filesystem.API().Create(output)
			handleErr(err)
		} else {
			writer = os.Stdout
		}

		showFlag := lo.Must(cmd.Flags().GetString("show"))
		showPicker := mo.None[inline.ShowPicker]()
		if showFlag != "" {
			kind, value, err := parseShowFlag(showFlag)
			handleErr(err)

			fn, err := inline.ParseShowPicker(kind, value)
			handleErr(err)
			showPicker = mo.Some(fn)
		}

		options := &inline.Options{
			Sources:        sources,
			Anilist:        anilistClient(),
			Json:           lo.Must(cmd.Flags().GetBool("json")),
			Query:          q,
			IncludeAnilist: lo.Must(cmd.Flags().GetBool("include-anilist")),
			ShowPicker:     showPicker,
			Out:            writer,
		}

		handleErr(inline.Run(cmd.Context(), options))
	},
}

func init() {
	inlineCmd.AddCommand(inlineAnilistCmd)
}

// inlineAnilistCmd manages Anilist record operations in inline mode.
var inlineAnilistCmd = &cobra.Command{
	Use:   "anilist",
	Short: "Manage Anilist record operations in inline mode",
}

func init() {
	inlineAnilistCmd.AddCommand(inlineAnilistSearchCmd)

	inlineAnilistSearchCmd.Flags().StringP("name", "n", "", "The show title to search for on Anilist")
	inlineAnilistSearchCmd.Flags().IntP("id", "i", 0, "The specific Anilist ID to retrieve metadata for")

	inlineAnilistSearchCmd.MarkFlagsMutuallyExclusive("name", "id")
}

// inlineAnilistSearchCmd performs an Anilist search by show title.
var inlineAnilistSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Perform an Anilist search by show title and return the results",
	PreRun: func(cmd *cobra.Command, args []string) {
		if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("id") {
			handleErr(errors.New("name or id flag is required"))
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		showName := lo.Must(cmd.Flags().GetString("name"))
		showID := lo.Must(cmd.Flags().GetInt("id"))

		client := anilistClient()

		var toEncode any

		if showName != "" {
			animes, err := client.SearchByName(cmd.Context(), showName)
			handleErr(err)
			toEncode = animes
		} else {
			anime, err := client.GetByID(cmd.Context(), showID)
			handleErr(err)
			toEncode = anime
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(toEncode))
	},
}

func init() {
	inlineAnilistCmd.AddCommand(inlineAnilistGetCmd)

	inlineAnilistGetCmd.Flags().StringP("name", "n", "", "The local show name to retrieve the mapped Anilist relation for")
	lo.Must0(inlineAnilistGetCmd.MarkFlagRequired("name"))
}

// inlineAnilistGetCmd retrieves mapped Anilist relations for local show titles.
var inlineAnilistGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Retrieve the Anilist record currently associated with a specific local show title",
	Run: func(cmd *cobra.Command, args []string) {
		name := lo.Must(cmd.Flags().GetString("name"))

		// A cached relation answers without touching the network.
		a := anilist.GetCachedRelation(name)
		if a == nil {
			var err error
			a, err = anilistClient().FindClosest(cmd.Context(), name)
			handleErr(err)
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(a))
	},
}

func init() {
	inlineAnilistCmd.AddCommand(inlineAnilistBindCmd)

	inlineAnilistBindCmd.Flags().StringP("name", "n", "", "The local show title to establish a mapping for")
	inlineAnilistBindCmd.Flags().IntP("id", "i", 0, "The Anilist ID to bind to the specified show title")

	lo.Must0(inlineAnilistBindCmd.MarkFlagRequired("name"))
	lo.Must0(inlineAnilistBindCmd.MarkFlagRequired("id"))

	inlineAnilistBindCmd.MarkFlagsRequiredTogether("name", "id")
}

// inlineAnilistBindCmd statically binds local show titles to Anilist record IDs.
var inlineAnilistBindCmd = &cobra.Command{
	Use:   "set",
	Short: "Statically bind a local show title to a specific Anilist record ID",
	Run: func(cmd *cobra.Command, args []string) {
		anilistAnime, err := anilistClient().GetByID(cmd.Context(), lo.Must(cmd.Flags().GetInt("id")))
		handleErr(err)

		showName := lo.Must(cmd.Flags().GetString("name"))

		handleErr(anilist.SetRelation(showName, anilistAnime))
	},
}

func init() {
	inlineCmd.AddCommand(inlineSchemaCmd)

	inlineSchemaCmd.Flags().BoolP("anilist", "a", false, "Generate the JSON Schema for Anilist search result objects")
}

// inlineSchemaCmd generates JSON schemas for structured inline mode outputs.
var inlineSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Generate JSON schemas for structured inline mode outputs",
	Run: func(cmd *cobra.Command, args []string) {
		reflector := new(jsonschema.Reflector)
		reflector.Anonymous = true
		reflector.Namer = func(t reflect.Type) string {
			name := t.Name()
			switch strings.ToLower(name) {
			case "anime", "show", "date", "output":
				return filepath.Base(t.PkgPath()) + "." + name
			}

			return name
		}

		var schema *jsonschema.Schema

		switch {
		case lo.Must(cmd.Flags().GetBool("anilist")):
			schema = reflector.Reflect([]*anilist.Anime{})
		default:
			schema = reflector.Reflect(&inline.Output{})
		}

		handleErr(json.NewEncoder(os.Stdout).Encode(schema))
	},
}
