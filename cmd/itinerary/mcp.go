// ABOUTME: MCP serve command
// ABOUTME: Serves the plan over stdio so AI agents can read and edit it

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/itinerary/internal/mcp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI agents",
	Long: `Start a Model Context Protocol server on stdin/stdout. Agents get tools
for every plan operation and the plan itself as the itinerary://plan resource.

Logs go to stderr; stdout carries the protocol.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		geocoder := cfg.Geocoder()
		server, err := mcp.NewServer(store, geocoder)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info().
			Str("plan", store.Key()).
			Str("backend", cfg.GetBackend()).
			Bool("geocoder", geocoder != nil).
			Msg("mcp server starting")
		return server.Serve(ctx)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
