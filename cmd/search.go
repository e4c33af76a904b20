package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/moodmap/internal/geo"
	"github.com/sells-group/moodmap/internal/locate"
	"github.com/sells-group/moodmap/internal/model"
	"github.com/sells-group/moodmap/internal/session"
	"github.com/sells-group/moodmap/pkg/geocode"
)

// moveThresholdMeters is how far the origin must move before --watch
// refreshes the results.
const moveThresholdMeters = 100.0

var (
	searchLat        float64
	searchLng        float64
	searchSort       string
	searchMinRating  float64
	searchMaxDist    float64
	searchOpenNow    bool
	searchPrice      []int
	searchQuery      string
	searchJSON       bool
	searchNoLabel    bool
	searchWatchEvery time.Duration
)

var searchCmd = &cobra.Command{
	Use:   "search <mood>",
	Short: "Search nearby places for a mood",
	Long:  "Resolves the mood, searches Google Places around --lat/--lng (or the geolocated position, falling back to geo.default_lat/lng), then filters and ranks the results.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		mode, err := model.ParseSortMode(searchSort)
		if err != nil {
			return err
		}
		criteria, err := searchCriteria()
		if err != nil {
			return err
		}

		reg, err := loadMoods()
		if err != nil {
			return err
		}
		provider, err := initProvider()
		if err != nil {
			return err
		}
		geocoder := initGeocoder()

		ctrl := initController(reg, provider,
			session.WithCriteria(criteria),
			session.WithSortMode(mode),
		)

		var geolocator locate.Geolocator
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
			ctrl.SetOrigin(model.LatLng{Lat: searchLat, Lng: searchLng}, false)
		} else {
			geolocator = locate.NewGoogleGeolocator(geocoder)
			fix := ctrl.Locate(ctx, geolocator, fallbackOrigin())
			if fix.Fallback {
				zap.L().Warn("using default location", zap.Error(fix.Err))
			}
		}

		moodText := strings.Join(args, " ")
		s := ctrl.Start(ctx, moodText)
		if _, err := s.Wait(ctx); err != nil {
			return eris.Wrapf(err, "search %q", moodText)
		}

		if err := printSnapshot(ctx, cmd.OutOrStdout(), ctrl.Snapshot(), geocoder); err != nil {
			return err
		}

		if searchWatchEvery <= 0 {
			return nil
		}
		if geolocator == nil {
			return eris.New("search: --watch needs geolocation; drop --lat/--lng")
		}
		return watchAndRefresh(ctx, cmd.OutOrStdout(), ctrl, geolocator, geocoder)
	},
}

func searchCriteria() (model.FilterCriteria, error) {
	if searchMinRating < 0 || searchMinRating > 5 {
		return model.FilterCriteria{}, eris.Errorf("search: --min-rating %v out of range 0-5", searchMinRating)
	}
	for _, t := range searchPrice {
		if t < 0 || t > 4 {
			return model.FilterCriteria{}, eris.Errorf("search: --price tier %d out of range 0-4", t)
		}
	}
	return model.FilterCriteria{
		MinRating:         searchMinRating,
		MaxDistanceMeters: searchMaxDist,
		OpenNowOnly:       searchOpenNow,
		PriceTiers:        searchPrice,
		Query:             searchQuery,
	}, nil
}

type searchOutput struct {
	Mood     string               `json:"mood"`
	Profile  string               `json:"profile,omitempty"`
	Origin   *model.LatLng        `json:"origin,omitempty"`
	Label    string               `json:"label,omitempty"`
	Fallback bool                 `json:"default_location"`
	Sort     model.SortMode       `json:"sort"`
	Criteria model.FilterCriteria `json:"criteria"`
	Total    int                  `json:"total"`
	Results  []model.Place        `json:"results"`
	Bounds   *geo.Bounds          `json:"bounds,omitempty"`
}

func printSnapshot(ctx context.Context, out io.Writer, snap session.Snapshot, gc geocode.Client) error {
	var label string
	if !searchNoLabel && snap.Origin != nil {
		label = originLabel(ctx, gc, *snap.Origin)
	}

	if !searchJSON {
		formatResults(out, snap, label)
		return nil
	}

	res := searchOutput{
		Mood:     snap.Mood,
		Origin:   snap.Origin,
		Label:    label,
		Fallback: snap.OriginFallback,
		Sort:     snap.Sort,
		Criteria: snap.Criteria,
		Total:    snap.Total,
		Results:  snap.Results,
	}
	if snap.Profile != nil {
		res.Profile = snap.Profile.Key
	}
	if snap.Origin != nil {
		locs := make([]model.LatLng, len(snap.Results))
		for i, p := range snap.Results {
			locs[i] = p.Location
		}
		res.Bounds = geo.BoundsForPoints(locs, *snap.Origin)
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(res), "search: encode results")
}

// watchAndRefresh polls the position and refreshes the current mood whenever
// it moves far enough, printing each completed result set until ctx ends.
func watchAndRefresh(ctx context.Context, out io.Writer, ctrl *session.Controller, g locate.Geolocator, gc geocode.Client) error {
	snap := ctrl.Snapshot()
	if snap.Origin == nil {
		return model.ErrNoLocation
	}

	// Listeners may run out of order; Seq drops stale snapshots and the
	// session id keeps each outcome from printing twice.
	var (
		printMu  sync.Mutex
		lastSeq  = snap.Seq
		reported = snap.SessionID
	)
	ctrl.OnPublish(func(snap session.Snapshot) {
		printMu.Lock()
		defer printMu.Unlock()
		if snap.Seq <= lastSeq {
			return
		}
		lastSeq = snap.Seq
		if snap.SessionID == reported || !snap.State.Terminal() {
			return
		}
		reported = snap.SessionID
		switch snap.State {
		case session.Completed:
			_, _ = fmt.Fprintln(out)
			if err := printSnapshot(ctx, out, snap, gc); err != nil {
				zap.L().Warn("watch: print results", zap.Error(err))
			}
		case session.Failed:
			zap.L().Warn("watch: refresh failed, keeping previous results", zap.Error(snap.Err))
		}
	})

	var (
		originMu sync.Mutex
		last     = *snap.Origin
	)
	h := locate.Watch(ctx, g, searchWatchEvery,
		func(loc model.LatLng) {
			originMu.Lock()
			moved := geo.DistanceMeters(last, loc)
			if moved < moveThresholdMeters {
				originMu.Unlock()
				return
			}
			last = loc
			originMu.Unlock()

			zap.L().Info("watch: position changed, refreshing",
				zap.Float64("moved_meters", moved),
				zap.Float64("lat", loc.Lat),
				zap.Float64("lng", loc.Lng),
			)
			ctrl.SetOrigin(loc, false)
			ctrl.Refresh(ctx)
		},
		func(err error) {
			zap.L().Warn("watch: geolocation failed", zap.Error(err))
		},
	)
	defer h.Stop()

	<-ctx.Done()
	return nil
}

func init() {
	f := searchCmd.Flags()
	f.Float64Var(&searchLat, "lat", 0, "origin latitude (requires --lng; skips geolocation)")
	f.Float64Var(&searchLng, "lng", 0, "origin longitude (requires --lat; skips geolocation)")
	f.StringVar(&searchSort, "sort", string(model.SortBestMatch), "sort mode: best, nearest, rating, price-asc, price-desc")
	f.Float64Var(&searchMinRating, "min-rating", 0, "drop places rated below this (0-5)")
	f.Float64Var(&searchMaxDist, "max-distance", 0, "drop places farther than this many meters (0 = unbounded)")
	f.BoolVar(&searchOpenNow, "open-now", false, "drop places known to be closed")
	f.IntSliceVar(&searchPrice, "price", nil, "allowed price tiers 0-4 (e.g. --price 1,2)")
	f.StringVar(&searchQuery, "query", "", "only places whose name or address contains this text")
	f.BoolVar(&searchJSON, "json", false, "print results as JSON")
	f.BoolVar(&searchNoLabel, "no-label", false, "skip reverse geocoding the origin")
	f.DurationVar(&searchWatchEvery, "watch", 0, "keep running and refresh when the position moves, polling at this interval")
	searchCmd.MarkFlagsRequiredTogether("lat", "lng")

	rootCmd.AddCommand(searchCmd)
}
