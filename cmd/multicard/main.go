// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

// Command multicard identifies smart cards by their ATR and encodes
// command APDUs.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:  "multicard",
		Usage: "Identify smart cards and build command APDUs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("MULTICARD_LOG_LEVEL"),
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			readersCommand(),
			identifyCommand(),
			apduCommand(),
			familiesCommand(),
		},
	}
}

// execute runs app and reports a failure through the default logger, which
// the Before hook has pointed at the app's error writer by then.
func execute(ctx context.Context, app *cli.Command, args []string) int {
	if err := app.Run(ctx, args); err != nil {
		slog.Error("Command failed", slog.Any("error", err))
		return 1
	}

	return 0
}

func main() {
	os.Exit(execute(context.Background(), newApp(), os.Args))
}
