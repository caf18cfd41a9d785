// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"

	"cunicu.li/go-multicard"
	"github.com/urfave/cli/v3"
)

func readersCommand() *cli.Command {
	return &cli.Command{
		Name:   "readers",
		Usage:  "List PC/SC readers",
		Action: runReadersCommand,
	}
}

func runReadersCommand(_ context.Context, cmd *cli.Command) error {
	readers, err := multicard.Readers()
	if err != nil {
		return fmt.Errorf("failed to list readers: %w", err)
	}

	for _, r := range readers {
		fmt.Fprintln(cmd.Root().Writer, r)
	}

	return nil
}
