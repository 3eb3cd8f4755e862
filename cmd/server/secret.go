package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tlmonitor/dashboard/internal/config"
	"github.com/tlmonitor/dashboard/internal/secrets"
)

// secretSetAction seeds the keyring backend, typically with the database
// secret JSON, so the dashboard can run without vault access.
func secretSetAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(cmd.String("env"))
	if err != nil {
		return err
	}

	name := cmd.String("name")
	if name == "" {
		name = cfg.Secrets.DBSecretName
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	value := strings.TrimSpace(string(raw))

	if name == cfg.Secrets.DBSecretName {
		if _, err := secrets.ParseDBCredentials(value); err != nil {
			return err
		}
	}

	if err := secrets.NewKeyringResolver(cfg.Secrets.KeyringService).SetSecret(name, value); err != nil {
		return fmt.Errorf("failed to store secret: %w", err)
	}

	fmt.Fprintf(os.Stdout, "stored %s in keyring service %s\n", name, cfg.Secrets.KeyringService)
	return nil
}
