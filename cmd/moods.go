package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "List the mood table",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := loadMoods()
		if err != nil {
			return err
		}
		formatProfiles(cmd.OutOrStdout(), reg.Profiles())
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest [text]",
	Short: "Suggest moods for partial input",
	Long:  "With no text, lists the popular moods. Otherwise returns up to six moods whose key or keywords contain the text.",
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadMoods()
		if err != nil {
			return err
		}
		matches := reg.Suggest(strings.Join(args, " "))
		if len(matches) == 0 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No matching moods.")
			return nil
		}
		formatProfiles(cmd.OutOrStdout(), matches)
		return nil
	},
}

var resolveJSON bool

var resolveCmd = &cobra.Command{
	Use:   "resolve <text>",
	Short: "Show how free text maps to a mood profile",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := loadMoods()
		if err != nil {
			return err
		}
		profile := reg.Resolve(strings.Join(args, " "))

		if resolveJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return eris.Wrap(enc.Encode(profile), "resolve: encode profile")
		}
		formatProfile(cmd.OutOrStdout(), profile)
		return nil
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "print the profile as JSON")

	rootCmd.AddCommand(moodsCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(resolveCmd)
}
