package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/grosnap/backend/internal/domain"
	"github.com/grosnap/backend/internal/usecase"
)

// distanceCmd represents the distance command
var distanceCmd = &cobra.Command{
	Use:   "distance <lat1> <lon1> <lat2> <lon2>",
	Short: "Print the great-circle distance between two points in km",
	Example: `  grosnap distance 28.6139 77.2090 19.0760 72.8777
  grosnap distance -- -33.8688 151.2093 51.5074 -0.1278`,
	Args: cobra.ExactArgs(4),
	RunE: runDistance,
}

func init() {
	rootCmd.AddCommand(distanceCmd)
}

func runDistance(cmd *cobra.Command, args []string) error {
	values := make([]float64, len(args))
	for i, arg := range args {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return fmt.Errorf("argument %d (%q) is not a number", i+1, arg)
		}
		values[i] = v
	}

	km := usecase.Distance(
		domain.Coordinate{Latitude: values[0], Longitude: values[1]},
		domain.Coordinate{Latitude: values[2], Longitude: values[3]},
	)
	fmt.Fprintf(cmd.OutOrStdout(), "%.3f km\n", km)
	return nil
}
