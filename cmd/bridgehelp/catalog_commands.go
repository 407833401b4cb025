package main

import (
	"fmt"

	"github.com/brojonat/bridgehelp/service/catalog"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"
)

func catalogValidateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Validate a catalog YAML file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			cat, err := loadCatalogArg(c)
			if err != nil {
				return err
			}

			rules := cat.Rules()
			fmt.Fprintf(c.App.Writer, "✓ Catalog is valid (%d rules)\n", len(rules))
			for _, r := range rules {
				fmt.Fprintf(c.App.Writer, "  %-28s %-16s %s\n", r.ID, r.Kind, r.Title)
			}
			return nil
		},
	}
}

func catalogDefaultCommand() *cli.Command {
	return &cli.Command{
		Name:  "default",
		Usage: "Print the built-in catalog as YAML",
		Action: func(c *cli.Context) error {
			data, err := catalog.Marshal(catalog.DefaultRules())
			if err != nil {
				return err
			}
			_, err = c.App.Writer.Write(data)
			return err
		},
	}
}

func catalogPushCommand() *cli.Command {
	return &cli.Command{
		Name:      "push",
		Usage:     "Replace the catalog stored in the database with a YAML file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			dbURL := c.String("database-url")
			if dbURL == "" {
				return fmt.Errorf("database-url is required (set CATALOG_DATABASE_URL env var or use --database-url)")
			}

			cat, err := loadCatalogArg(c)
			if err != nil {
				return err
			}

			pool, err := pgxpool.New(c.Context, dbURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer pool.Close()

			store := catalog.NewStore(pool)
			if err := store.EnsureSchema(c.Context); err != nil {
				return err
			}
			if err := store.Replace(c.Context, cat.Rules()); err != nil {
				return err
			}

			fmt.Fprintf(c.App.Writer, "✓ Pushed %d rules\n", len(cat.Rules()))
			return nil
		},
	}
}

// loadCatalogArg loads and validates the catalog file named by the first argument.
func loadCatalogArg(c *cli.Context) (*catalog.Catalog, error) {
	if c.NArg() != 1 {
		return nil, fmt.Errorf("expected exactly one catalog file, got %d arguments", c.NArg())
	}

	rules, err := catalog.LoadFile(c.Args().First())
	if err != nil {
		return nil, err
	}
	return catalog.New(rules)
}
