package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

func newJoinCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "join <tableId>",
		Short: "Join a table and print table updates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(cmd, cfg, "join "+strings.Join(args, " "))
		},
	}
}

func newSendCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "send <text>",
		Short: "Send a raw command line",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return session(cmd, cfg, strings.Join(args, " "))
		},
	}
}

func newTablesCmd(cfg *Config) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List tables and their seating",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := tablesURL(cfg.ServerURL)
			if err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, u, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return fmt.Errorf("get %s: %w", u, err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("get %s: %s", u, resp.Status)
			}

			var body struct {
				Tables []struct {
					TableID string `json:"table_id"`
					Seating []struct {
						PlayerID string `json:"player_id"`
						Seat     string `json:"seat"`
					} `json:"seating"`
					FreeSeats []string `json:"free_seats"`
				} `json:"tables"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				return fmt.Errorf("decode tables: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, t := range body.Tables {
				fmt.Fprintf(out, "%s (%d free)\n", t.TableID, len(t.FreeSeats))
				for _, a := range t.Seating {
					fmt.Fprintf(out, "  %s: %s\n", a.Seat, a.PlayerID)
				}
			}
			return nil
		},
	}
}

// session dials, prints the welcome, sends line and streams replies.
func session(cmd *cobra.Command, cfg *Config, line string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Wait)
		defer cancel()
	}

	c, err := Dial(ctx, cfg.ServerURL)
	if err != nil {
		return err
	}
	defer c.Close()

	welcome, err := c.Recv(ctx)
	if err != nil {
		return fmt.Errorf("read welcome: %w", err)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, welcome)

	if err := c.Send(ctx, line); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return c.Stream(ctx, out)
}

// tablesURL maps ws://host/ws to http://host/tables.
func tablesURL(wsURL string) (string, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return "", fmt.Errorf("server url: %w", err)
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	}
	u.Path = strings.TrimSuffix(u.Path, "/ws") + "/tables"
	u.RawQuery = ""
	return u.String(), nil
}
