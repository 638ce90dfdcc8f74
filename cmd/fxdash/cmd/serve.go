package cmd

import (
	"context"
	"fmt"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/fxdash/dashboard"
	"github.com/rustyeddy/fxdash/journal"
	"github.com/rustyeddy/fxdash/monitor"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web dashboard",
	Long: `Start the web dashboard, its JSON API and the live news websocket.

The news monitor runs in the background when monitor.enabled is set (or
FXDASH_MONITOR=true). The trade journal is opened from journal.dsn; when it
cannot be opened the journal endpoints report 503.

Example:
  fxdash serve --addr :9090`,
	RunE: runServe,
}

var serveAddr string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eng, src, scorer, err := newEngine(cfg, logger)
	if err != nil {
		return err
	}

	var store journal.Store
	if j, err := openJournal(cfg, ""); err != nil {
		logger.Warn().Err(err).Msg("trade journal unavailable")
	} else {
		defer j.Close()
		store = j
	}

	var mon *monitor.Monitor
	if cfg.Monitor.Enabled {
		mon = monitor.New(src, scorer, cfg.Monitor, logger)
		if err := mon.Start(ctx); err != nil {
			return fmt.Errorf("start monitor: %w", err)
		}
		defer mon.Stop()
	}

	srv, err := dashboard.New(eng, store, mon, logger)
	if err != nil {
		return err
	}

	eng.Refresh(ctx)
	host := cfg.Server.Addr
	if strings.HasPrefix(host, ":") {
		host = "localhost" + host
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Dashboard running at http://%s\n", host)
	return srv.Start(ctx)
}
