// ABOUTME: Day commands and the plan overview
// ABOUTME: Adds and removes days and prints the plan with its items

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/harper/itinerary/internal/ui"
	"github.com/spf13/cobra"
)

var dayCmd = &cobra.Command{
	Use:   "day",
	Short: "Add or remove days",
}

var dayAddCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Append a day to the plan",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := store.CreateDay(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Added Day %d (%s)", day.Number, day.Date))
		return nil
	},
}

var dayRmCmd = &cobra.Command{
	Use:     "rm <day>",
	Aliases: []string{"remove"},
	Short:   "Delete a day and everything on it",
	Long: `Delete a day and everything planned on it. Later days are renumbered.

Examples:
  itinerary day rm 2
  itinerary day rm day_3f2a`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(args[0])
		if err != nil {
			return err
		}
		if err := store.DeleteDay(cmd.Context(), day.ID); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Deleted Day %d (%d items)", day.Number, len(day.ItemList())))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show",
	Aliases: []string{"ls", "list"},
	Short:   "Show the plan",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dayRef, _ := cmd.Flags().GetString("day")

		var only string
		if dayRef != "" {
			day, err := resolveDay(dayRef)
			if err != nil {
				return err
			}
			if err := store.SelectDay(day.ID); err != nil {
				return err
			}
			only = day.ID
		}

		fmt.Fprint(cmd.OutOrStdout(), ui.FormatPlan(store.Plan(), store.Session().SelectedDayID, only))
		return nil
	},
}

func init() {
	showCmd.Flags().StringP("day", "d", "", "show only this day (number or ID)")

	dayCmd.AddCommand(dayAddCmd, dayRmCmd)
	rootCmd.AddCommand(dayCmd, showCmd)
}
