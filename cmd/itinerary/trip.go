// ABOUTME: Plan-level commands: new trip, title, dates, and clear
// ABOUTME: Replacing a non-empty plan asks for confirmation unless --yes is given

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/itinerary/internal/models"
	"github.com/spf13/cobra"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Start a new trip",
	Long: `Start a new trip: clears the current plan, sets the start date, and
adds the first day.

Examples:
  itinerary new
  itinerary new --start 2025-06-01 --title "Paris in June"
  itinerary new --start 2025-06-01 --yes`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		startStr, _ := cmd.Flags().GetString("start")
		yes, _ := cmd.Flags().GetBool("yes")
		title, _ := cmd.Flags().GetString("title")

		start := models.Today()
		if startStr != "" {
			var err error
			if start, err = models.ParseDate(startStr); err != nil {
				return err
			}
		}

		confirmed := confirmReplace(cmd, yes, "Discard the current plan and start a new trip?")
		day, err := store.NewTrip(cmd.Context(), start, confirmed)
		if err != nil {
			return err
		}
		if title != "" {
			if err := store.SetTitle(cmd.Context(), title); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Started %s on %s", store.Plan().Title, start))
		fmt.Fprintf(out, "  Day %d %s\n", day.Number, color.New(color.Faint).Sprint(day.ID))
		return nil
	},
}

var titleCmd = &cobra.Command{
	Use:   "title <text>",
	Short: "Rename the plan",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.SetTitle(cmd.Context(), strings.Join(args, " ")); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Title set to %s", store.Plan().Title))
		return nil
	},
}

var datesCmd = &cobra.Command{
	Use:   "dates",
	Short: "Set the trip start and end dates",
	Long: `Set the trip start and end dates. Every day is redated from the start.
Pass an empty value to clear a date.

Examples:
  itinerary dates --start 2025-06-01 --end 2025-06-07
  itinerary dates --end ""`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		current := store.Plan()
		start, end := current.StartDate, current.EndDate

		if cmd.Flags().Changed("start") {
			s, _ := cmd.Flags().GetString("start")
			var err error
			if start, err = models.ParseDate(s); err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
		}
		if cmd.Flags().Changed("end") {
			e, _ := cmd.Flags().GetString("end")
			var err error
			if end, err = models.ParseDate(e); err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}
		}

		if err := store.SetDateRange(cmd.Context(), start, end); err != nil {
			return err
		}

		startStr, endStr := start.String(), end.String()
		if startStr == "" {
			startStr = "(none)"
		}
		if endStr == "" {
			endStr = "(none)"
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Dates set: %s to %s", startStr, endStr))
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every day from the plan",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		confirmed := confirmReplace(cmd, yes, "Delete all days, locations, and notes?")
		if err := store.Clear(cmd.Context(), confirmed); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Plan cleared"))
		return nil
	},
}

func init() {
	newCmd.Flags().String("start", "", "start date YYYY-MM-DD (default: today)")
	newCmd.Flags().String("title", "", "plan title")
	newCmd.Flags().BoolP("yes", "y", false, "replace a non-empty plan without asking")

	datesCmd.Flags().String("start", "", "start date YYYY-MM-DD")
	datesCmd.Flags().String("end", "", "end date YYYY-MM-DD")

	clearCmd.Flags().BoolP("yes", "y", false, "clear without asking")

	rootCmd.AddCommand(newCmd, titleCmd, datesCmd, clearCmd)
}
