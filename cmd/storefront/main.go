package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	args := os.Args
	if len(args) == 1 {
		args = append(args, "--help")
	}

	if err := newRootCommand().Run(context.Background(), args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "storefront",
		Usage: "Storefront client for buyers, sellers and admins",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api-url", Usage: "API base URL (overrides STOREFRONT_API_URL)"},
			&cli.BoolFlag{Name: "verbose", Usage: "log requests to stderr"},
		},
		Commands: []*cli.Command{
			loginCommand(),
			logoutCommand(),
			whoamiCommand(),
			profileCommand(),
			productsCommand(),
			cartCommand(),
			checkoutCommand(),
			billsCommand(),
			accessCommand(),
			adminCommand(),
		},
	}
}
