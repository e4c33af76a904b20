package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/sells-group/moodmap/internal/geo"
	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/internal/mood"
	"github.com/sells-group/moodmap/internal/session"
)

const maxNameWidth = 32

func formatResults(out io.Writer, snap session.Snapshot, label string) {
	header := fmt.Sprintf("%d of %d places", len(snap.Results), snap.Total)
	if snap.Profile != nil {
		header = fmt.Sprintf("%s for %q (%s)", header, snap.Mood, snap.Profile.Key)
	}
	if label != "" {
		header += " near " + label
	}
	if snap.OriginFallback {
		header += " [default location]"
	}
	_, _ = fmt.Fprintln(out, header)
	_, _ = fmt.Fprintf(out, "sorted by %s\n\n", snap.Sort)

	if len(snap.Results) == 0 {
		_, _ = fmt.Fprintln(out, "No places match.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "#\tNAME\tRATING\tPRICE\tDISTANCE\tWALK\tOPEN\tSCORE")
	_, _ = fmt.Fprintln(w, "-\t----\t------\t-----\t--------\t----\t----\t-----")
	for i, p := range snap.Results {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			truncate(p.Name, maxNameWidth),
			formatRating(p),
			formatPrice(p.PriceTier),
			formatDistance(p.DistanceMeters),
			formatWalk(p.DistanceMeters),
			formatOpen(p.OpenNow),
			formatScore(p.RelevanceScore),
		)
	}
	_ = w.Flush()

	if snap.Origin != nil {
		locs := make([]model.LatLng, len(snap.Results))
		for i, p := range snap.Results {
			locs[i] = p.Location
		}
		if b := geo.BoundsForPoints(locs, *snap.Origin); b != nil {
			_, _ = fmt.Fprintf(out, "\nbounds: N %.5f  S %.5f  E %.5f  W %.5f\n", b.North, b.South, b.East, b.West)
		}
	}
}

func formatPlace(out io.Writer, p model.Place, origin *model.LatLng) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Name:\t%s\n", p.Name)
	_, _ = fmt.Fprintf(w, "ID:\t%s\n", p.ID)
	if p.Address != "" {
		_, _ = fmt.Fprintf(w, "Address:\t%s\n", p.Address)
	}
	_, _ = fmt.Fprintf(w, "Location:\t%.6f, %.6f\n", p.Location.Lat, p.Location.Lng)
	if len(p.Categories) > 0 {
		_, _ = fmt.Fprintf(w, "Categories:\t%s\n", strings.Join(p.Categories, ", "))
	}
	_, _ = fmt.Fprintf(w, "Rating:\t%s\n", formatRating(p))
	_, _ = fmt.Fprintf(w, "Price:\t%s\n", formatPrice(p.PriceTier))
	_, _ = fmt.Fprintf(w, "Open now:\t%s\n", formatOpen(p.OpenNow))
	if origin != nil {
		d := geo.DistanceMeters(*origin, p.Location)
		_, _ = fmt.Fprintf(w, "Distance:\t%s (%s, %s)\n", geo.FormatDistance(d), geo.WalkingTime(d), geo.DrivingTime(d))
	}
	if len(p.Photos) > 0 {
		_, _ = fmt.Fprintf(w, "Photos:\t%d\n", len(p.Photos))
	}
	_ = w.Flush()
}

func formatProfiles(out io.Writer, profiles []mood.Profile) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MOOD\tCATEGORIES\tPRICE\tDESCRIPTION")
	_, _ = fmt.Fprintln(w, "----\t----------\t-----\t-----------")
	for _, p := range profiles {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			p.Key,
			strings.Join(p.Categories, ","),
			formatTiers(p.PreferredPriceTiers),
			p.Description,
		)
	}
	_ = w.Flush()
}

func formatProfile(out io.Writer, p mood.Profile) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Mood:\t%s\n", p.Key)
	_, _ = fmt.Fprintf(w, "Description:\t%s\n", p.Description)
	_, _ = fmt.Fprintf(w, "Categories:\t%s\n", strings.Join(p.Categories, ", "))
	_, _ = fmt.Fprintf(w, "Keywords:\t%s\n", strings.Join(p.Keywords, ", "))
	_, _ = fmt.Fprintf(w, "Price tiers:\t%s\n", formatTiers(p.PreferredPriceTiers))
	_, _ = fmt.Fprintf(w, "Rating first:\t%t\n", p.PrioritizeRating)
	_ = w.Flush()
}

func formatRating(p model.Place) string {
	if p.Rating == nil {
		return "-"
	}
	if p.RatingCount == nil {
		return fmt.Sprintf("%.1f", *p.Rating)
	}
	return fmt.Sprintf("%.1f (%s)", *p.Rating, humanize.Comma(int64(*p.RatingCount)))
}

func formatPrice(tier *int) string {
	switch {
	case tier == nil:
		return "-"
	case *tier == 0:
		return "free"
	default:
		return strings.Repeat("$", *tier)
	}
}

func formatTiers(tiers []int) string {
	if len(tiers) == 0 {
		return "any"
	}
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		parts[i] = formatPrice(&t)
	}
	return strings.Join(parts, ",")
}

func formatDistance(d *float64) string {
	if d == nil {
		return "-"
	}
	return geo.FormatDistance(*d)
}

func formatWalk(d *float64) string {
	if d == nil {
		return "-"
	}
	return geo.WalkingTime(*d)
}

func formatOpen(open *bool) string {
	switch {
	case open == nil:
		return "?"
	case *open:
		return "yes"
	default:
		return "no"
	}
}

func formatScore(s *int) string {
	if s == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
