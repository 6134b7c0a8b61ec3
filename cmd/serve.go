package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/KaramelBytes/cafeteria-insights/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, m, err := buildDashboard()
		if err != nil {
			return err
		}
		if err := preload(cmd, d); err != nil {
			return err
		}
		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		success(cmd.ErrOrStderr(), "Dashboard on http://%s (layout: %s)", addr, d.Navigation().Layout())
		return server.New(d, m, logger).ListenAndServe(ctx, addr, cfg.ShutdownTimeout())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides listen_addr)")
}
