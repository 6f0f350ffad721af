// ABOUTME: Import and backup commands
// ABOUTME: Import replaces the plan from JSON or a YAML backup; backup writes YAML

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/harper/itinerary/internal/codec"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the plan with an exported file",
	Long: `Replace the plan with a JSON export or a YAML backup. Older exports that
keep locations and notes in separate lists are converted on the way in.
Nothing changes if the file is invalid.

Examples:
  itinerary import travel-plan.json
  itinerary import backup.yaml --yes
  cat travel-plan.json | itinerary import -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]
		yes, _ := cmd.Flags().GetBool("yes")

		var (
			data []byte
			err  error
		)
		if filename == "-" {
			data, err = io.ReadAll(cmd.InOrStdin())
		} else {
			data, err = os.ReadFile(filename)
		}
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}

		ext := strings.ToLower(filepath.Ext(filename))
		if ext == ".yaml" || ext == ".yml" {
			p, err := codec.DecodeYAML(data)
			if err != nil {
				return fmt.Errorf("failed to import: %w", err)
			}
			confirmed := confirmReplace(cmd, yes, "Replace the current plan?")
			if err := store.Replace(cmd.Context(), p, confirmed); err != nil {
				return err
			}
		} else {
			// Decode first so an invalid file never prompts.
			if _, err := codec.Decode(data); err != nil {
				return fmt.Errorf("failed to import: %w", err)
			}
			confirmed := confirmReplace(cmd, yes, "Replace the current plan?")
			if err := store.Import(cmd.Context(), data, confirmed); err != nil {
				return err
			}
		}

		p := store.Plan()
		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("✓ Imported %s", p.Title))
		fmt.Fprintf(cmd.OutOrStdout(), "  %d days, %d items\n", len(p.Days), p.ItemCount())
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Create a YAML backup of the plan",
	Long: `Create a YAML backup of the plan. Restore it with 'itinerary import'.

Examples:
  itinerary backup
  itinerary backup -o ~/backups/paris.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")

		p := store.Plan()
		data, err := codec.EncodeYAML(p)
		if err != nil {
			return fmt.Errorf("failed to create backup: %w", err)
		}

		if output == "" {
			output = fmt.Sprintf("itinerary-%s-%s.yaml", store.Key(), time.Now().Format("20060102-150405"))
		}
		if err := os.WriteFile(output, data, 0644); err != nil { //nolint:gosec // 0644 is intentional for backup files
			return fmt.Errorf("failed to write backup: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), color.GreenString("Backup created: %s", output))
		fmt.Fprintf(cmd.OutOrStdout(), "  %d days, %d items\n", len(p.Days), p.ItemCount())
		return nil
	},
}

func init() {
	importCmd.Flags().BoolP("yes", "y", false, "replace a non-empty plan without asking")
	backupCmd.Flags().StringP("output", "o", "", "output file (default: itinerary-<plan>-YYYYMMDD-HHMMSS.yaml)")

	rootCmd.AddCommand(importCmd, backupCmd)
}
