package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "bridgehelp",
		Usage: "Bridge support options service CLI",
		Description: `A command-line tool for querying and operating the bridge support options service.

Use this CLI to look up support options for a bridge transaction, manage the
support catalog, and check on a running server.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Commands: []*cli.Command{
			optionsCommand(),
			// Support catalog management commands
			{
				Name:  "catalog",
				Usage: "Support catalog management commands",
				Subcommands: []*cli.Command{
					catalogValidateCommand(),
					catalogDefaultCommand(),
					catalogPushCommand(),
				},
			},
			// Server utility commands
			{
				Name:  "server",
				Usage: "Server utility commands",
				Subcommands: []*cli.Command{
					healthCommand(),
					versionCommand(),
				},
			},
		},
		// Global flags available to all commands
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server-url",
				Usage:   "Server URL",
				EnvVars: []string{"SERVER_URL"},
				Value:   "http://localhost:8080",
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "Catalog database connection URL",
				EnvVars: []string{"CATALOG_DATABASE_URL"},
			},
		},
	}
}
