// ABOUTME: Plans and migrate commands
// ABOUTME: Lists stored plans and copies every plan to another backend

package main

import (
	"fmt"
	"slices"

	"github.com/fatih/color"
	"github.com/harper/itinerary/internal/config"
	"github.com/harper/itinerary/internal/storage"
	"github.com/spf13/cobra"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "List stored plans",
	Long: `List every plan in the configured backend. Switch plans with --plan.

Examples:
  itinerary plans
  itinerary --plan japan-2025 show`,
	Args: cobra.NoArgs,
	Annotations: map[string]string{
		annotationScope: scopeStorage,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := snapshots.Keys(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list plans: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(keys) == 0 {
			fmt.Fprintln(out, color.New(color.Faint).Sprint("No plans stored yet."))
			return nil
		}
		current := cfg.GetPlanKey()
		for _, key := range keys {
			if key == current {
				fmt.Fprintf(out, "* %s\n", color.GreenString(key))
			} else {
				fmt.Fprintf(out, "  %s\n", key)
			}
		}
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy all plans to another storage backend",
	Long: `Copy every plan from the configured backend to another backend.

Does NOT update the config file; verify the migration was successful then
update config.json.

Examples:
  itinerary migrate --to sqlite
  itinerary migrate --to redis --force`,
	Args: cobra.NoArgs,
	Annotations: map[string]string{
		annotationScope: scopeStorage,
	},
	RunE: runMigrate,
}

var (
	migrateTo    string
	migrateForce bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (file, sqlite, badger, charm, redis, mongo)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "overwrite plans that already exist in the target")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(plansCmd, migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := migrateTo

	if !slices.Contains(config.Backends, targetBackend) {
		return fmt.Errorf("invalid target backend %q: must be one of %v", targetBackend, config.Backends)
	}
	if targetBackend == sourceBackend {
		return fmt.Errorf("target backend %q is the same as the current backend", targetBackend)
	}

	dst, err := cfg.OpenBackend(cmd.Context(), targetBackend)
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, color.YellowString("Migrating plans:"))
	fmt.Fprintf(out, "  Source:  %s\n", sourceBackend)
	fmt.Fprintf(out, "  Target:  %s\n", targetBackend)
	fmt.Fprintln(out)

	summary, err := storage.Copy(cmd.Context(), snapshots, dst, migrateForce)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, color.GreenString("Migration complete!"))
	fmt.Fprintf(out, "  Plans:   %d\n", summary.Copied)
	if summary.Skipped > 0 {
		fmt.Fprintf(out, "  Skipped: %d\n", summary.Skipped)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, color.YellowString("Note: config.json was NOT updated. To switch to the new backend, edit:"))
	fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	fmt.Fprintf(out, "  Set \"backend\": %q\n", targetBackend)
	return nil
}
