package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/starhop/internal/games/starhop"
	"github.com/vovakirdan/starhop/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagDataDir     string
	flagServeAuto   bool
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the starhop SSH server",
	Long: `Start an SSH server that lets users connect and fly.

Each SSH user gets their own planet progress file under the data
directory. Runs are stored per-server (all users share one scoreboard).

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key in the data directory

Examples:
  starhop serve                           # Listen on :23234
  starhop serve --ssh :2222               # Listen on port 2222
  starhop serve --host-key ./my_host_key  # Use specific host key
  starhop serve --data ./voyages          # Keep progress files here

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	defaults := tui.DefaultSSHServerConfig()
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", defaults.Address, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagDataDir, "data", defaults.DataDir, "Directory for per-user progress files")
	serveCmd.Flags().BoolVar(&flagServeAuto, "autopilot", false, "Serve the autopilot mode")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.DBPath = flagDBPath
	cfg.DataDir = flagDataDir
	cfg.ConfigPath = flagConfig
	cfg.Difficulty = flagDifficulty
	cfg.TickRate = flagFPS
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	if flagServeAuto {
		cfg.GameID = starhop.AutopilotID
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting starhop SSH server on %s\n", cfg.Address)
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
