// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, sets up logging, and opens the plan store for subcommands

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/harper/itinerary/internal/config"
	"github.com/harper/itinerary/internal/geocode"
	"github.com/harper/itinerary/internal/logging"
	"github.com/harper/itinerary/internal/models"
	"github.com/harper/itinerary/internal/plan"
	"github.com/harper/itinerary/internal/storage"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Commands declare how much setup they need through this annotation.
// Without it a command gets the full plan store.
const (
	annotationScope = "scope"
	scopeNone       = "none"
	scopeStorage    = "storage"
)

var (
	cfg       *config.Config
	snapshots storage.SnapshotStore
	store     *plan.Store

	planKeyFlag  string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "itinerary",
	Short: "Day-by-day travel planning from the terminal",
	Long: `
██╗████████╗██╗███╗   ██╗███████╗██████╗  █████╗ ██████╗ ██╗   ██╗
██║╚══██╔══╝██║████╗  ██║██╔════╝██╔══██╗██╔══██╗██╔══██╗╚██╗ ██╔╝
██║   ██║   ██║██╔██╗ ██║█████╗  ██████╔╝███████║██████╔╝ ╚████╔╝
██║   ██║   ██║██║╚██╗██║██╔══╝  ██╔══██╗██╔══██║██╔══██╗  ╚██╔╝
██║   ██║   ██║██║ ╚████║███████╗██║  ██║██║  ██║██║  ██║   ██║
╚═╝   ╚═╝   ╚═╝╚═╝  ╚═══╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝

      Plan trips day by day with places and notes

Examples:
  itinerary new --start 2025-06-01
  itinerary day add
  itinerary loc add 1 "Louvre Museum" --time 10:00
  itinerary note add 1 "Buy museum pass"
  itinerary show
  itinerary export --format markdown`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		scope := cmd.Annotations[annotationScope]
		if scope == scopeNone {
			return nil
		}

		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if planKeyFlag != "" {
			c.PlanKey = planKeyFlag
		}
		if logLevelFlag != "" {
			c.LogLevel = logLevelFlag
		}
		logging.Init(c.GetLogLevel())
		cfg = c

		if err := storage.ValidateKey(cfg.GetPlanKey()); err != nil {
			return err
		}

		snapshots, err = cfg.OpenStorage(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to open %s storage: %w", cfg.GetBackend(), err)
		}
		if scope == scopeStorage {
			return nil
		}

		store, err = plan.Open(cmd.Context(), snapshots, plan.WithKey(cfg.GetPlanKey()))
		if err != nil {
			return fmt.Errorf("failed to open plan: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		closeStorage()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&planKeyFlag, "plan", "p", "", "plan to work on (default from config, or travelPlan)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error")
}

// closeStorage releases the snapshot store. Safe to call more than once.
func closeStorage() {
	if snapshots != nil {
		if err := snapshots.Close(); err != nil {
			log.Warn().Err(err).Msg("closing storage")
		}
		snapshots = nil
	}
}

// resolveDay maps a day number or ID onto the current plan.
func resolveDay(ref string) (*models.Day, error) {
	return plan.ResolveDay(store.Plan(), ref)
}

// resolveItem maps day and item references onto the current plan.
func resolveItem(dayRef, itemRef string) (*models.Day, models.Item, error) {
	day, err := resolveDay(dayRef)
	if err != nil {
		return nil, nil, err
	}
	item, err := plan.ResolveItem(day, itemRef)
	if err != nil {
		return nil, nil, err
	}
	return day, item, nil
}

// confirmReplace decides whether a plan-replacing command may proceed.
// An empty plan never needs confirmation; otherwise --yes or an
// interactive "y" does.
func confirmReplace(cmd *cobra.Command, yes bool, question string) bool {
	if yes || store.Plan().IsEmpty() {
		return true
	}
	return ask(cmd.InOrStdin(), cmd.OutOrStdout(), question)
}

func ask(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N] ", question)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		fmt.Fprintln(out)
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}

// lookup geocodes query with the configured geocoder.
func lookup(ctx context.Context, query string) (geocode.Result, error) {
	g := cfg.Geocoder()
	if g == nil {
		return geocode.Result{}, fmt.Errorf("no geocoder configured: set GOOGLE_MAPS_API_KEY or pass --lat and --lng")
	}
	return geocode.Search(ctx, g, query)
}

// resolveIntoForm geocodes query for the open edit and records the result
// in the editor session.
func resolveIntoForm(ctx context.Context, query string) (geocode.Result, error) {
	token := store.IssueGeocodeToken()
	res, err := lookup(ctx, query)
	if err != nil {
		return geocode.Result{}, err
	}
	store.ApplyGeocode(token, res.Lat, res.Lng, res.FormattedAddress)
	return res, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
