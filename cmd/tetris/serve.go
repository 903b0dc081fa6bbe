package main

import (
	"net"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-tetris/internal/platform/tui"
)

var serveCfg = tui.DefaultSSHServerConfig()

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the game over SSH",
	Long: `Serve the menu to SSH clients.

Every connection gets its own menu. Two connected players can race in
versus mode: one hosts a lobby and reads its join code to the other, who
joins with it. Both get the same rules and the same piece sequence.
Scores and match results go to the server's database.

Without --host-key a key is generated at ~/.tetris/host_key.`,
	Example: `  tetris serve
  tetris serve --ssh :2222 --host-key ./host_key
  tetris serve --db ./scores.db --idle-timeout 10m

  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		serveCfg.DBPath = flagDBPath
		serveCfg.TickRate = flagFPS
		serveCfg.Logger = logger

		server, err := tui.NewSSHServer(serveCfg)
		if err != nil {
			return err
		}
		logger.Info("connect with", "cmd", "ssh localhost -p "+portOf(serveCfg.Address))
		return server.ListenAndServe()
	},
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&serveCfg.Address, "ssh", serveCfg.Address, "listen address (host:port)")
	f.StringVar(&serveCfg.HostKeyPath, "host-key", "", "host key file")
	f.DurationVar(&serveCfg.IdleTimeout, "idle-timeout", serveCfg.IdleTimeout, "drop connections idle this long")
}

func portOf(addr string) string {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return port
}
