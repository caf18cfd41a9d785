// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"cunicu.li/go-multicard"
	"github.com/urfave/cli/v3"
)

func identifyCommand() *cli.Command {
	return &cli.Command{
		Name:  "identify",
		Usage: "Identify the card family from an ATR or the cards in the attached readers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "atr",
				Usage: "ATR in hex; no reader is accessed if given",
			},
			&cli.StringFlag{
				Name:    "reader",
				Usage:   "Open the card in this reader instead of scanning all readers",
				Sources: cli.EnvVars("MULTICARD_READER"),
			},
			&cli.BoolFlag{
				Name:  "supported-only",
				Usage: "Ignore unsupported cards while scanning",
			},
		},
		Action: runIdentifyCommand,
	}
}

func runIdentifyCommand(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer

	if cmd.IsSet("atr") {
		atr, err := multicard.ParseATR(cmd.String("atr"))
		if err != nil {
			return err
		}

		printIdentity(w, "", atr)
		return nil
	}

	if reader := cmd.String("reader"); reader != "" {
		card, err := multicard.Open(reader)
		if err != nil {
			return fmt.Errorf("failed to open card: %w", err)
		}
		defer card.Close() //nolint:errcheck

		printIdentity(w, card.Reader(), card.ATR())
		return nil
	}

	c := &multicard.Client{
		Logger: slog.Default(),
	}

	if cmd.Bool("supported-only") {
		c.Filter = multicard.IsSupported
	}

	_, r, err := c.Identify()
	if err != nil {
		return fmt.Errorf("failed to identify card: %w", err)
	}

	printIdentity(w, r.Reader, r.ATR)

	return nil
}

func printIdentity(w io.Writer, reader string, atr multicard.ATR) {
	family := multicard.Identify(atr)
	model, ok := multicard.LookupModel(atr)
	if !ok {
		model = "-"
	}

	if reader != "" {
		fmt.Fprintf(w, "Reader: %s\n", reader)
	}

	fmt.Fprintf(w, "ATR:    %s\n", atr)
	fmt.Fprintf(w, "Family: %s\n", family)
	fmt.Fprintf(w, "Model:  %s\n", model)
}
