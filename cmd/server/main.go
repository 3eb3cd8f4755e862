package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "tl-dashboard",
		Usage: "message preview and job submission dashboard",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "start the HTTP dashboard",
				Flags: []cli.Flag{
					newEnvFlag(),
					&cli.StringFlag{
						Name:  "addr",
						Usage: "listen address (overrides ADDR)",
					},
				},
				Action: serveAction,
			},
			{
				Name:  "secret",
				Usage: "manage secrets in the OS keyring",
				Commands: []*cli.Command{
					{
						Name:      "set",
						Usage:     "store a secret read from stdin",
						ArgsUsage: "< secret.json",
						Flags: []cli.Flag{
							newEnvFlag(),
							&cli.StringFlag{
								Name:  "name",
								Usage: "secret name (defaults to DB_SECRET_NAME)",
							},
						},
						Action: secretSetAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatalf("tl-dashboard: %v", err)
	}
}

func newEnvFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "path to an env file",
		Value: ".env",
	}
}
