package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/brojonat/bridgehelp/client"
	"github.com/brojonat/bridgehelp/service/support"
	"github.com/urfave/cli/v2"
)

// healthCommand pings the server through the same client the options command uses.
func healthCommand() *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that a bridgehelp server is up",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Request timeout",
				Value: 5 * time.Second,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log request details to stderr",
			},
		},
		Action: func(c *cli.Context) error {
			serverURL := c.String("server-url")
			if serverURL == "" {
				return fmt.Errorf("server-url is required (set SERVER_URL env var or use --server-url)")
			}

			cl := client.NewClient(serverURL, &http.Client{Timeout: c.Duration("timeout")}, cliLogger(c))
			if err := cl.Health(c.Context); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "✓ %s is serving %s support options\n", serverURL, support.Product)
			return nil
		},
	}
}

// versionCommand prints build information and what this build accepts.
func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: "Show version information and supported inputs",
		Action: func(c *cli.Context) error {
			v := support.NewValidator()
			w := c.App.Writer
			fmt.Fprintf(w, "bridgehelp %s (commit: %s, built: %s)\n", version, commit, date)
			fmt.Fprintf(w, "  Product:  %s\n", support.Product)
			fmt.Fprintf(w, "  Networks: %s\n", strings.Join(v.Networks(), ", "))
			fmt.Fprintf(w, "  Wallets:  %s\n", strings.Join(v.Wallets(), ", "))
			return nil
		},
	}
}

// cliLogger logs to stderr at debug level with --verbose and warn level otherwise.
func cliLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
