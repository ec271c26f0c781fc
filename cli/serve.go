package cli

import (
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"graphmail.evalgo.org/common"
	"graphmail.evalgo.org/server"
	"graphmail.evalgo.org/state"
)

// Development-mode intervals for quick testing runs.
const (
	devCheckInterval = 30 * time.Second
	devErrorRetry    = 6 * time.Second
)

func init() {
	RootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("term", "", "subject search term (default from config)")
	serveCmd.Flags().String("folder", "", "target folder display name (default from config)")
	serveCmd.Flags().Duration("check-interval", 0, "pause between processing cycles (default from config)")
	serveCmd.Flags().Duration("error-retry", 0, "pause after a failed cycle (default from config)")
	serveCmd.Flags().String("status-addr", "", "health/status endpoint listen address, e.g. :8097")
	serveCmd.Flags().String("state", "", "state database path (default from config)")
	serveCmd.Flags().Bool("dev", false, "development mode: short intervals for quick testing")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "run the mailbox polling server",
	Long: `Run the mailbox poller continuously: authenticate once, then organize
matching messages and report unread counts on every cycle until the process
receives SIGINT or SIGTERM.

Moved message IDs are recorded in a local state database so restarts do not
recount earlier moves. With --status-addr an HTTP endpoint serves /healthz
and /status for monitoring.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		serverConfig := server.Config{
			Term:          cfg.Organize.Term,
			Folder:        cfg.Organize.Folder,
			CheckInterval: cfg.Server.CheckInterval,
			ErrorRetry:    cfg.Server.ErrorRetry,
			StatusAddr:    cfg.Server.StatusAddr,
		}
		if v, _ := cmd.Flags().GetString("term"); v != "" {
			serverConfig.Term = v
		}
		if v, _ := cmd.Flags().GetString("folder"); v != "" {
			serverConfig.Folder = v
		}
		if v, _ := cmd.Flags().GetDuration("check-interval"); v > 0 {
			serverConfig.CheckInterval = v
		}
		if v, _ := cmd.Flags().GetDuration("error-retry"); v > 0 {
			serverConfig.ErrorRetry = v
		}
		if v, _ := cmd.Flags().GetString("status-addr"); v != "" {
			serverConfig.StatusAddr = v
		}
		if dev, _ := cmd.Flags().GetBool("dev"); dev {
			serverConfig.CheckInterval = devCheckInterval
			serverConfig.ErrorRetry = devErrorRetry
			common.Logger.Warn("Development mode: using short polling intervals")
		}

		statePath := cfg.Server.StatePath
		if v, _ := cmd.Flags().GetString("state"); v != "" {
			statePath = v
		}
		store, err := state.Open(statePath)
		if err != nil {
			return err
		}
		defer store.Close()

		mailbox, err := newMailbox(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Authenticate up front so the device-code prompt happens before
		// the first scheduled cycle
		user, err := mailbox.Me(ctx)
		if err != nil {
			return err
		}
		common.Logger.WithField("user", displayName(user)).Info("Authenticated")

		return server.New(mailbox, store, serverConfig).Run(ctx)
	},
}
