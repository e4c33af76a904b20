package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/moodmap/internal/model"
)

var (
	placesLat float64
	placesLng float64
)

// flagOrigin returns the --lat/--lng origin when both were given.
func flagOrigin(cmd *cobra.Command) *model.LatLng {
	if !cmd.Flags().Changed("lat") || !cmd.Flags().Changed("lng") {
		return nil
	}
	return &model.LatLng{Lat: placesLat, Lng: placesLng}
}

var autocompleteCmd = &cobra.Command{
	Use:   "autocomplete <text>",
	Short: "Autocomplete a place name",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		provider, err := initProvider()
		if err != nil {
			return err
		}

		suggestions, err := provider.Autocomplete(ctx, strings.Join(args, " "), flagOrigin(cmd))
		if err != nil {
			return eris.Wrap(err, "autocomplete")
		}
		if len(suggestions) == 0 {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "No suggestions.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "PLACE\tDETAIL\tID")
		for _, s := range suggestions {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", s.MainText, s.SecondaryText, s.ID)
		}
		return w.Flush()
	},
}

var detailsCmd = &cobra.Command{
	Use:   "details <place-id>",
	Short: "Show details for one place",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		provider, err := initProvider()
		if err != nil {
			return err
		}

		p, err := provider.Details(ctx, args[0])
		if err != nil {
			return eris.Wrapf(err, "details %s", args[0])
		}
		formatPlace(cmd.OutOrStdout(), *p, flagOrigin(cmd))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{autocompleteCmd, detailsCmd} {
		c.Flags().Float64Var(&placesLat, "lat", 0, "latitude to bias results or measure distance from")
		c.Flags().Float64Var(&placesLng, "lng", 0, "longitude to bias results or measure distance from")
		c.MarkFlagsRequiredTogether("lat", "lng")
		rootCmd.AddCommand(c)
	}
}
