// ABOUTME: Location and note commands, plus removing and moving items
// ABOUTME: Locations go through the editor session so geocode results are tracked

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/itinerary/internal/models"
	"github.com/harper/itinerary/internal/plan"
	"github.com/harper/itinerary/internal/ui"
	"github.com/spf13/cobra"
)

var locCmd = &cobra.Command{
	Use:     "loc",
	Aliases: []string{"location"},
	Short:   "Add or edit locations",
}

var locAddCmd = &cobra.Command{
	Use:     "add <day> <name>",
	Aliases: []string{"a"},
	Short:   "Add a location to the end of a day",
	Long: `Add a location to the end of a day. Without --lat and --lng the address
(or the name) is geocoded.

Examples:
  itinerary loc add 1 "Louvre Museum" --time 10:00
  itinerary loc add 1 "Hotel" --address "12 Rue de Rivoli, Paris"
  itinerary loc add 2 "Picnic spot" --lat 48.8566 --lng 2.3522`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		day, err := resolveDay(args[0])
		if err != nil {
			return err
		}

		form := plan.LocationForm{Name: strings.Join(args[1:], " ")}
		form.GoogleAddress, _ = cmd.Flags().GetString("address")
		form.Time, _ = cmd.Flags().GetString("time")
		form.Notes, _ = cmd.Flags().GetString("notes")
		form.Lat, form.Lng = coordinateFlags(cmd)
		forceGeocode, _ := cmd.Flags().GetBool("geocode")

		if err := store.BeginCreate(day.ID); err != nil {
			return err
		}
		defer store.CancelEdit()

		if (form.Lat == nil && form.Lng == nil) || forceGeocode {
			res, err := resolveIntoForm(ctx, firstNonBlank(form.GoogleAddress, form.Name))
			if err != nil {
				return fmt.Errorf("failed to locate %q: %w", form.Name, err)
			}
			if strings.TrimSpace(form.GoogleAddress) == "" {
				form.GoogleAddress = res.FormattedAddress
			}
		}

		loc, err := store.SubmitLocation(ctx, form)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added to Day %d", day.Number))
		fmt.Fprintf(out, "  %s\n", ui.FormatLocation(loc))
		return nil
	},
}

var locEditCmd = &cobra.Command{
	Use:   "edit <day> <item>",
	Short: "Change a location",
	Long: `Change fields of a location. Renaming without --lat and --lng geocodes
the new name.

Examples:
  itinerary loc edit 1 loc_3f2a --time 14:00
  itinerary loc edit 1 loc_3f2a --name "Musée d'Orsay"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		day, item, err := resolveItem(args[0], args[1])
		if err != nil {
			return err
		}

		current, err := store.BeginEdit(day.ID, item.ItemID())
		if err != nil {
			return err
		}
		defer store.CancelEdit()

		orig, ok := current.(*models.Location)
		if !ok {
			return fmt.Errorf("%s is a %s: %w", item.ItemID(), current.Type(), plan.ErrItemTypeMismatch)
		}

		form := plan.LocationForm{
			Name:          orig.Name,
			GoogleAddress: orig.GoogleAddress,
			Time:          orig.Time,
			Notes:         orig.Notes,
		}
		flags := cmd.Flags()
		if flags.Changed("name") {
			form.Name, _ = flags.GetString("name")
		}
		if flags.Changed("address") {
			form.GoogleAddress, _ = flags.GetString("address")
		}
		if flags.Changed("time") {
			form.Time, _ = flags.GetString("time")
		}
		if flags.Changed("notes") {
			form.Notes, _ = flags.GetString("notes")
		}
		form.Lat, form.Lng = coordinateFlags(cmd)
		forceGeocode, _ := flags.GetBool("geocode")

		renamed := strings.TrimSpace(form.Name) != orig.Name
		if (renamed && form.Lat == nil && form.Lng == nil) || forceGeocode {
			query := form.Name
			if flags.Changed("address") {
				query = firstNonBlank(form.GoogleAddress, form.Name)
			}
			res, err := resolveIntoForm(ctx, query)
			if err != nil {
				return fmt.Errorf("failed to locate %q: %w", query, err)
			}
			if strings.TrimSpace(form.GoogleAddress) == "" {
				form.GoogleAddress = res.FormattedAddress
			}
		}

		loc, err := store.SubmitLocation(ctx, form)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Updated location on Day %d", day.Number))
		fmt.Fprintf(out, "  %s\n", ui.FormatLocation(loc))
		return nil
	},
}

// coordinateFlags returns the --lat and --lng values that were given.
func coordinateFlags(cmd *cobra.Command) (lat, lng *float64) {
	if cmd.Flags().Changed("lat") {
		v, _ := cmd.Flags().GetFloat64("lat")
		lat = &v
	}
	if cmd.Flags().Changed("lng") {
		v, _ := cmd.Flags().GetFloat64("lng")
		lng = &v
	}
	return lat, lng
}

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Add or edit notes",
}

var noteAddCmd = &cobra.Command{
	Use:     "add <day> <text>",
	Aliases: []string{"a"},
	Short:   "Add a note to the end of a day",
	Args:    cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := resolveDay(args[0])
		if err != nil {
			return err
		}
		if err := store.BeginCreate(day.ID); err != nil {
			return err
		}
		defer store.CancelEdit()

		note, err := store.SubmitNote(cmd.Context(), strings.Join(args[1:], " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Added note to Day %d", day.Number))
		fmt.Fprintf(out, "  %s\n", ui.FormatNote(note))
		return nil
	},
}

var noteEditCmd = &cobra.Command{
	Use:   "edit <day> <item> <text>",
	Short: "Replace the text of a note",
	Args:  cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, item, err := resolveItem(args[0], args[1])
		if err != nil {
			return err
		}
		if item.Type() != models.TypeNote {
			return fmt.Errorf("%s is a %s: %w", item.ItemID(), item.Type(), plan.ErrItemTypeMismatch)
		}
		if _, err := store.BeginEdit(day.ID, item.ItemID()); err != nil {
			return err
		}
		defer store.CancelEdit()

		note, err := store.SubmitNote(cmd.Context(), strings.Join(args[2:], " "))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, color.GreenString("✓ Updated note on Day %d", day.Number))
		fmt.Fprintf(out, "  %s\n", ui.FormatNote(note))
		return nil
	},
}

var rmCmd = &cobra.Command{
	Use:     "rm <day> <item>",
	Aliases: []string{"remove"},
	Short:   "Delete a location or note",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, item, err := resolveItem(args[0], args[1])
		if err != nil {
			return err
		}
		if err := store.DeleteItem(cmd.Context(), day.ID, item.ItemID()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Deleted %s %s from Day %d", item.Type(), ui.ShortID(item.ItemID()), day.Number))
		return nil
	},
}

var mvCmd = &cobra.Command{
	Use:     "mv <item>",
	Aliases: []string{"move"},
	Short:   "Move an item within a day or to another day",
	Long: `Move an item. --index is the 0-based position in the target day with
the item already taken out; omit it to append.

Examples:
  itinerary mv loc_3f2a --to 2
  itinerary mv note_91c0 --from 1 --to 1 --index 0`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := store.Plan()
		fromRef, _ := cmd.Flags().GetString("from")
		toRef, _ := cmd.Flags().GetString("to")
		index, _ := cmd.Flags().GetInt("index")

		var (
			src  *models.Day
			item models.Item
			err  error
		)
		if fromRef != "" {
			if src, err = plan.ResolveDay(p, fromRef); err != nil {
				return err
			}
			item, err = plan.ResolveItem(src, args[0])
		} else {
			src, item, err = plan.FindItem(p, args[0])
		}
		if err != nil {
			return err
		}

		dst := src
		if toRef != "" {
			if dst, err = plan.ResolveDay(p, toRef); err != nil {
				return err
			}
		}
		if index < 0 {
			index = len(dst.ItemList())
		}

		if err := store.ReorderItem(cmd.Context(), src.ID, dst.ID, item.ItemID(), index); err != nil {
			return err
		}

		moved := store.Plan().FindDay(dst.ID)
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Moved %s to Day %d position %d",
			ui.ShortID(item.ItemID()), moved.Number, moved.IndexOf(item.ItemID())+1))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{locAddCmd, locEditCmd} {
		c.Flags().String("address", "", "street address")
		c.Flags().String("time", "", "time of visit (e.g., 10:00)")
		c.Flags().String("notes", "", "notes about the visit")
		c.Flags().Float64("lat", 0, "latitude (-90 to 90)")
		c.Flags().Float64("lng", 0, "longitude (-180 to 180)")
		c.Flags().Bool("geocode", false, "look the address up even when coordinates are given")
	}
	locEditCmd.Flags().String("name", "", "new name")

	mvCmd.Flags().String("from", "", "day the item is on (default: search all days)")
	mvCmd.Flags().String("to", "", "target day (default: same day)")
	mvCmd.Flags().Int("index", -1, "0-based position in the target day (default: end)")

	locCmd.AddCommand(locAddCmd, locEditCmd)
	noteCmd.AddCommand(noteAddCmd, noteEditCmd)
	rootCmd.AddCommand(locCmd, noteCmd, rmCmd, mvCmd)
}
