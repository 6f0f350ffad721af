// ABOUTME: Search command for looking up a place
// ABOUTME: Prints coordinates, formatted address, and a map link

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/itinerary/internal/codec"
	"github.com/harper/itinerary/internal/models"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search <query>",
	Aliases: []string{"s"},
	Short:   "Look up a place",
	Long: `Look up a place with the configured geocoder.

Examples:
  itinerary search "Eiffel Tower"
  itinerary search "1600 Amphitheatre Parkway"`,
	Args: cobra.MinimumNArgs(1),
	Annotations: map[string]string{
		annotationScope: scopeStorage,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")
		res, err := lookup(cmd.Context(), query)
		if err != nil {
			return err
		}

		loc := &models.Location{Name: query, GoogleAddress: res.FormattedAddress, Lat: res.Lat, Lng: res.Lng}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("%s", res.FormattedAddress))
		fmt.Fprintf(out, "  %s\n", color.New(color.Faint).Sprintf("(%.6f, %.6f)", res.Lat, res.Lng))
		fmt.Fprintf(out, "  %s\n", codec.NavigationURL(loc))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
