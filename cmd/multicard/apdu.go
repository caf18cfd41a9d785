// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	iso "cunicu.li/go-iso7816"
	"cunicu.li/go-multicard"
	"github.com/urfave/cli/v3"
)

func byteFlag(name, usage string, required bool) *cli.Uint8Flag {
	return &cli.Uint8Flag{
		Name:     name,
		Usage:    usage,
		Required: required,
		Config:   cli.IntegerConfig{Base: 0},
	}
}

func apduCommand() *cli.Command {
	return &cli.Command{
		Name:  "apdu",
		Usage: "Encode a short form command APDU",
		Flags: []cli.Flag{
			byteFlag("cla", "Class byte", false),
			byteFlag("ins", "Instruction byte", true),
			byteFlag("p1", "Parameter 1", false),
			byteFlag("p2", "Parameter 2", false),
			&cli.StringFlag{
				Name:  "data",
				Usage: "Command data in hex",
			},
			&cli.IntFlag{
				Name:  "le",
				Usage: "Expected response length (0 for maximum)",
			},
		},
		Action: runAPDUCommand,
	}
}

func runAPDUCommand(_ context.Context, cmd *cli.Command) error {
	data, err := hex.DecodeString(cmd.String("data"))
	if err != nil {
		return fmt.Errorf("failed to decode data: %w", err)
	}

	c := multicard.NewCommand(
		multicard.Class(cmd.Uint8("cla")),
		iso.Instruction(cmd.Uint8("ins")),
		cmd.Uint8("p1"),
		cmd.Uint8("p2"),
		data,
	)

	if cmd.IsSet("le") {
		c = c.WithLe(cmd.Int("le"))
	}

	b, err := c.Encode()
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.Root().Writer, strings.ToUpper(hex.EncodeToString(b)))

	return nil
}
