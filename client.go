// SPDX-FileCopyrightText: 2020 Google LLC
// SPDX-License-Identifier: Apache-2.0

package multicard

import (
	"errors"
	"fmt"
	"log/slog"

	"cunicu.li/go-iso7816/filter"
	"github.com/ebfe/scard"
)

// Readers lists all smart card readers available via PC/SC interface.
//
// Reader names depend on the operating system and what port a reader is
// plugged into.
//
// See: https://ludovicrousseau.blogspot.com/2010/05/what-is-in-pcsc-reader-name.html
func Readers() ([]string, error) {
	var c Client
	return c.Readers()
}

// Scan resets the cards in all readers and returns the last ATR read.
func Scan() (Reading, error) {
	var c Client
	return c.Scan()
}

// Open connects exclusively to the card in the named reader.
func Open(reader string) (*Card, error) {
	var c Client
	return c.Open(reader)
}

// Reading is the ATR read from the card in a reader.
type Reading struct {
	Reader string
	ATR    ATR
}

// Client is a PC/SC client. The zero value is ready to use.
type Client struct {
	// Logger receives diagnostics about readers which were skipped.
	//
	// If nil, defaults to slog.Default().
	Logger *slog.Logger

	// Filter restricts Scan to matching cards. It is called with the card
	// open, after the reset.
	//
	// If nil, every card which answers to a reset is considered.
	Filter filter.Filter

	establish func() (pcscContext, error)
}

func (c *Client) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c *Client) context() (pcscContext, error) {
	establish := c.establish
	if establish == nil {
		establish = establishContext
	}

	ctx, err := establish()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PC/SC: %w", err)
	}

	return ctx, nil
}

// Readers lists the readers known to the PC/SC daemon. Having no readers
// is not an error.
func (c *Client) Readers() ([]string, error) {
	ctx, err := c.context()
	if err != nil {
		return nil, err
	}

	readers, err := ctx.ListReaders()

	if err := ctx.Release(); err != nil {
		return nil, errContextRelease
	}

	if errors.Is(err, scard.ErrNoReadersAvailable) {
		return nil, nil
	}

	return readers, err
}

// Scan resets the card in every reader, in the order the PC/SC daemon
// lists them, and returns the ATR of the last card which answered. Readers
// without a card, failing to reset or rejected by the filter are skipped.
// ErrNoCard is returned if no reader produced an ATR.
func (c *Client) Scan() (Reading, error) {
	ctx, err := c.context()
	if err != nil {
		return Reading{}, err
	}

	defer func() {
		if err := ctx.Release(); err != nil {
			c.logger().Warn("Failed to release PC/SC context", slog.Any("error", err))
		}
	}()

	readers, err := ctx.ListReaders()
	if err != nil && !errors.Is(err, scard.ErrNoReadersAvailable) {
		return Reading{}, fmt.Errorf("failed to list readers: %w", err)
	}

	var (
		last  Reading
		found bool
	)

	for _, reader := range readers {
		r, err := c.read(ctx, reader)
		switch {
		case errors.Is(err, errFiltered):
			c.logger().Debug("Skipping filtered card",
				slog.String("reader", reader),
				slog.String("atr", r.ATR.String()))

		case err != nil:
			c.logger().Debug("Skipping reader",
				slog.String("reader", reader),
				slog.Any("error", err))

		default:
			last = r
			found = true
		}
	}

	if !found {
		return Reading{}, ErrNoCard
	}

	return last, nil
}

// Identify scans the readers and resolves the family of the card found.
// An unsupported card yields FamilyUnknown and no error.
func (c *Client) Identify() (Family, Reading, error) {
	r, err := c.Scan()
	if err != nil {
		return FamilyUnknown, Reading{}, err
	}

	f, ok := Resolve(r.ATR)
	if !ok {
		c.logger().Info("Card not supported",
			slog.String("reader", r.Reader),
			slog.String("atr", r.ATR.String()))
	}

	return f, r, nil
}

// Open connects exclusively to the card in the named reader and resolves
// its family from the ATR.
func (c *Client) Open(reader string) (*Card, error) {
	ctx, err := c.context()
	if err != nil {
		return nil, err
	}

	ic, err := ctx.Open(reader, false)
	if err != nil {
		if err := ctx.Release(); err != nil {
			return nil, fmt.Errorf("failed to release context: %w", err)
		}

		return nil, fmt.Errorf("failed to connect to smart card: %w", err)
	}

	card, err := NewCard(ic)
	if err != nil {
		return nil, errors.Join(err, ic.Close(), ctx.Release())
	}

	card.logger = c.logger()
	card.release = ctx.Release

	return card, nil
}

// read resets the card in reader and returns its ATR. The ATR is also
// returned alongside errFiltered.
func (c *Client) read(ctx pcscContext, reader string) (Reading, error) {
	card, err := ctx.Open(reader, true)
	if err != nil {
		return Reading{}, fmt.Errorf("failed to connect: %w", err)
	}

	defer card.Close() //nolint:errcheck

	if err := resetCard(card); err != nil {
		return Reading{}, fmt.Errorf("failed to reset card: %w", err)
	}

	atr, err := readATR(card)
	if err != nil {
		return Reading{}, err
	}

	r := Reading{Reader: reader, ATR: atr}

	if c.Filter != nil {
		if ok, err := c.Filter(card.PCSCCard); err != nil {
			return Reading{}, fmt.Errorf("failed to filter card: %w", err)
		} else if !ok {
			return r, errFiltered
		}
	}

	return r, nil
}
