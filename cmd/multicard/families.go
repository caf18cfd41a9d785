// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"cunicu.li/go-multicard"
	"github.com/urfave/cli/v3"
)

func familiesCommand() *cli.Command {
	return &cli.Command{
		Name:   "families",
		Usage:  "List the supported card families and their ATR patterns",
		Action: runFamiliesCommand,
	}
}

func runFamiliesCommand(_ context.Context, cmd *cli.Command) error {
	w := cmd.Root().Writer

	for _, e := range multicard.Registry() {
		fmt.Fprintf(w, "%s\n", e.Family)

		for _, m := range e.Models {
			fmt.Fprintf(w, "  %s\n", m.Name)
			fmt.Fprintf(w, "    ATR:  %s\n", multicard.ATR(m.Pattern.Fingerprint))
			fmt.Fprintf(w, "    Mask: %s\n", multicard.ATR(m.Pattern.Mask))
		}
	}

	return nil
}
