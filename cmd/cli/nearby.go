package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/usecase"
)

var (
	nearbyLat    float64
	nearbyLng    float64
	nearbyRadius float64
)

// nearbyCmd represents the nearby command
var nearbyCmd = &cobra.Command{
	Use:   "nearby",
	Short: "Rank catalog shops around a location",
	Long: `Lists the catalog shops within the radius of the given location, closest
first. Shops without coordinates are never listed. A radius of 0 uses the
configured default (5 km unless overridden).`,
	Example: `  grosnap nearby --lat 28.6139 --lng 77.2090
  grosnap nearby --lat 28.6139 --lng 77.2090 --radius 10 --driver sqlite --dsn ./data/grosnap.db`,
	RunE: runNearby,
}

func init() {
	rootCmd.AddCommand(nearbyCmd)

	nearbyCmd.Flags().Float64Var(&nearbyLat, "lat", 0, "Latitude in degrees (required)")
	nearbyCmd.Flags().Float64Var(&nearbyLng, "lng", 0, "Longitude in degrees (required)")
	nearbyCmd.Flags().Float64Var(&nearbyRadius, "radius", 0, "Radius in km")
	nearbyCmd.MarkFlagRequired("lat")
	nearbyCmd.MarkFlagRequired("lng")
}

func runNearby(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openCatalog(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	defaultRadius := 0.0
	if cfg != nil {
		defaultRadius = cfg.Proximity.DefaultRadiusKm
	}
	service := usecase.NewNearbyService(store, nil, nil, nil, logger, usecase.NearbyServiceConfig{
		DefaultRadiusKm: defaultRadius,
	})

	user := &domain.Coordinate{Latitude: nearbyLat, Longitude: nearbyLng}
	results, err := service.NearbyShops(ctx, user, nearbyRadius)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No shops found within the radius")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDISTANCE (KM)\tADDRESS")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%s\n", r.Candidate.ID, r.Candidate.Name, r.DistanceKm, r.Candidate.Address)
	}
	return w.Flush()
}
