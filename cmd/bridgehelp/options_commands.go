package main

import (
	"fmt"
	"io"

	"github.com/brojonat/bridgehelp/client"
	"github.com/brojonat/bridgehelp/service/support"
	json "github.com/goccy/go-json"
	"github.com/itchyny/gojq"
	"github.com/urfave/cli/v2"
)

func optionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "options",
		Usage: "Get support options for a bridge transaction",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "product",
				Usage: "Product to ask about",
				Value: support.Product,
			},
			&cli.StringFlag{
				Name:     "from-network",
				Aliases:  []string{"n"},
				Usage:    "Source network of the transaction",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "tx-hash",
				Aliases:  []string{"t"},
				Usage:    "Transaction hash (0x-prefixed)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "wallet",
				Aliases:  []string{"w"},
				Usage:    "Wallet used to send the transaction",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Print the rendered HTML instead of JSON",
			},
			&cli.StringFlag{
				Name:  "jq",
				Usage: "jq filter applied to the JSON response (e.g. '.options.list[].title')",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Log client requests to stderr",
			},
		},
		Action: func(c *cli.Context) error {
			if c.Bool("html") && c.String("jq") != "" {
				return fmt.Errorf("--html and --jq cannot be combined")
			}

			var code *gojq.Code
			if filter := c.String("jq"); filter != "" {
				query, err := gojq.Parse(filter)
				if err != nil {
					return fmt.Errorf("failed to parse jq filter %q: %w", filter, err)
				}
				code, err = gojq.Compile(query)
				if err != nil {
					return fmt.Errorf("failed to compile jq filter %q: %w", filter, err)
				}
			}

			cl := client.NewClient(c.String("server-url"), nil, cliLogger(c))
			q := client.Query{
				Product:     c.String("product"),
				FromNetwork: c.String("from-network"),
				TxHash:      c.String("tx-hash"),
				WalletName:  c.String("wallet"),
			}

			if c.Bool("html") {
				html, err := cl.GetOptionsHTML(c.Context, q)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, html)
				return nil
			}

			resp, err := cl.GetOptions(c.Context, q)
			if err != nil {
				return err
			}

			if code != nil {
				return runJQ(c.App.Writer, code, resp)
			}

			out, err := json.MarshalIndent(resp, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode response: %w", err)
			}
			fmt.Fprintln(c.App.Writer, string(out))
			return nil
		},
	}
}

// runJQ evaluates code against resp and prints every result on its own line.
func runJQ(w io.Writer, code *gojq.Code, resp *client.OptionsResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	var input interface{}
	if err := json.Unmarshal(raw, &input); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("jq filter failed: %w", err)
		}

		if s, isString := v.(string); isString {
			fmt.Fprintln(w, s)
			continue
		}
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode jq result: %w", err)
		}
		fmt.Fprintln(w, string(out))
	}
}
