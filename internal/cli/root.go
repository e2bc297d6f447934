package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

type Config struct {
	ServerURL string
	Wait      time.Duration
}

func DefaultConfig() *Config {
	url := os.Getenv("LOBBYCTL_SERVER")
	if url == "" {
		url = "ws://localhost:8080/ws"
	}
	return &Config{ServerURL: url}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "lobbyctl",
		Short: "Client for the seating lobby",
		Long: `lobbyctl connects to a seating lobby over its websocket endpoint,
sends commands and prints every message the server pushes back.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Websocket URL (env: LOBBYCTL_SERVER)")
	rootCmd.PersistentFlags().DurationVar(&cfg.Wait, "wait", cfg.Wait, "Stop listening after this long (0 = until interrupted)")

	rootCmd.AddCommand(newJoinCmd(cfg))
	rootCmd.AddCommand(newSendCmd(cfg))
	rootCmd.AddCommand(newTablesCmd(cfg))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
