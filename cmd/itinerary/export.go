// ABOUTME: Export command for JSON, YAML, Markdown, and GeoJSON output
// ABOUTME: Markdown and GeoJSON can be limited to one day

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/harper/itinerary/internal/codec"
	"github.com/harper/itinerary/internal/geojson"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Export the plan in various formats",
	Long: `Export the plan as JSON (the import format), a YAML backup, a Markdown
itinerary, or GeoJSON.

Examples:
  # Save the plan as travel-plan.json in the current directory
  itinerary export -o .

  # Printable itinerary for one day
  itinerary export --format markdown --day 2

  # Map routes, one line per day
  itinerary export --format geojson --geometry line -o trip.geojson`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		geometry, _ := cmd.Flags().GetString("geometry")
		dayRef, _ := cmd.Flags().GetString("day")
		output, _ := cmd.Flags().GetString("output")

		if geometry != "points" && geometry != "line" {
			return fmt.Errorf("unsupported geometry: %s (use 'points' or 'line')", geometry)
		}

		var dayID string
		if dayRef != "" {
			day, err := resolveDay(dayRef)
			if err != nil {
				return err
			}
			dayID = day.ID
		}

		p := store.Plan()
		var (
			data        []byte
			defaultName string
			err         error
		)
		switch format {
		case "json":
			data, err = codec.Encode(p)
			defaultName = codec.ExportFilename
		case "yaml":
			data, err = codec.EncodeYAML(p)
			defaultName = "travel-plan.yaml"
		case "markdown", "md":
			data = codec.EncodeMarkdown(p, dayID, time.Now())
			defaultName = "travel-plan.md"
		case "geojson":
			fc := geojson.ToPointsFeatureCollection(p, dayID)
			if geometry == "line" {
				fc = geojson.ToLineFeatureCollection(p, dayID)
			}
			data, err = fc.ToJSONIndent()
			data = append(data, '\n')
			defaultName = "travel-plan.geojson"
		default:
			return fmt.Errorf("unsupported format: %s (use 'json', 'yaml', 'markdown', or 'geojson')", format)
		}
		if err != nil {
			return fmt.Errorf("failed to generate %s: %w", format, err)
		}

		if output == "" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if info, statErr := os.Stat(output); statErr == nil && info.IsDir() {
			output = filepath.Join(output, defaultName)
		}
		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for data export files
			return fmt.Errorf("failed to write file: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s to %s\n", format, output)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "output format (json, yaml, markdown, geojson)")
	exportCmd.Flags().StringP("geometry", "g", "points", "GeoJSON geometry (points, line)")
	exportCmd.Flags().StringP("day", "d", "", "limit markdown and GeoJSON to one day (number or ID)")
	exportCmd.Flags().StringP("output", "o", "", "output file or directory (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
