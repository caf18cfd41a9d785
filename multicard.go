// SPDX-FileCopyrightText: 2020 Google LLC
// SPDX-License-Identifier: Apache-2.0

// Package multicard identifies Spanish eID and related smart cards by their
// Answer-To-Reset and builds the command APDUs used to talk to them.
//
// Identification is a pure function of the ATR:
//
//	family, ok := multicard.Resolve(atr)
//	if !ok {
//		// unsupported card
//	}
//
// The PC/SC helpers (Readers, Scan, Open) obtain ATRs from attached
// readers and transmit encoded commands. Cards opened through
// cunicu.li/go-iso7816 can be used as well:
//
//	sc, _ := pcsc.OpenFirstCard(ctx, multicard.IsSupported, false)
//	card, _ := multicard.NewCard(iso.NewCard(sc))
package multicard

import (
	"errors"
	"fmt"
	"log/slog"

	iso "cunicu.li/go-iso7816"
)

// Card is an exclusive open connection to a smart card. While open, no
// other process can access the card.
//
// To release the connection, call the Close method.
type Card struct {
	card    *iso.Card
	tx      *iso.Transaction
	release func() error
	reader  string
	logger  *slog.Logger

	atr    ATR
	family Family
	model  string
}

// NewCard begins a transaction on card and identifies it from its ATR.
// The returned Card takes ownership of card and closes it in Close.
func NewCard(card *iso.Card) (c *Card, err error) {
	c = &Card{
		card:   card,
		logger: slog.Default(),
	}

	if rc, ok := card.Base().(iso.ReaderCard); ok {
		c.reader = rc.Reader()
	}

	if c.tx, err = card.NewTransaction(); err != nil {
		return nil, fmt.Errorf("failed to begin smart card transaction: %w", err)
	}

	if err := c.identify(); err != nil {
		c.tx.Close()
		return nil, err
	}

	return c, nil
}

// Reader returns the name of the reader holding the card.
func (c *Card) Reader() string { return c.reader }

// ATR returns the Answer-To-Reset read when the card was opened or last
// reset.
func (c *Card) ATR() ATR { return c.atr }

// Family returns the card family resolved from the ATR, or FamilyUnknown.
func (c *Card) Family() Family { return c.family }

// Model returns the name of the matching card model, or an empty string if
// the card is not supported.
func (c *Card) Model() string { return c.model }

// Transmit sends cmd to the card and returns the response data without the
// status word. Status words other than 9000 are returned as errors.
func (c *Card) Transmit(cmd Command) ([]byte, error) {
	if c.card == nil {
		return nil, errClosed
	} else if c.tx == nil {
		return nil, errNoTransaction
	}

	resp, err := send(c.tx, cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to execute command %02x: %w", byte(cmd.Instruction()), err)
	}

	c.logger.Debug("Executed command",
		slog.String("reader", c.reader),
		slog.Int("ins", int(cmd.Instruction())),
		slog.Int("len", len(resp)))

	return resp, nil
}

// Reset performs a warm reset of the card and identifies it again.
func (c *Card) Reset() (err error) {
	if c.card == nil {
		return errClosed
	}

	if c.tx != nil {
		if err := c.tx.Close(); err != nil {
			return fmt.Errorf("failed to end transaction: %w", err)
		}
		c.tx = nil
	}

	if err := resetCard(c.card); err != nil {
		return fmt.Errorf("failed to reset card: %w", err)
	}

	if c.tx, err = c.card.NewTransaction(); err != nil {
		return fmt.Errorf("failed to begin smart card transaction: %w", err)
	}

	return c.identify()
}

// Close ends the transaction and releases the connection to the smart card.
func (c *Card) Close() error {
	if c.card == nil {
		return nil
	}

	var errs []error

	if c.tx != nil {
		errs = append(errs, c.tx.Close())
	}

	errs = append(errs, c.card.Close())

	if c.release != nil {
		errs = append(errs, c.release())
	}

	c.card = nil
	c.tx = nil
	c.release = nil

	return errors.Join(errs...)
}

func (c *Card) identify() error {
	atr, err := readATR(c.card)
	if err != nil {
		return err
	}

	c.atr = atr
	c.family = FamilyUnknown
	c.model = ""

	if m, ok := lookup(atr); ok {
		c.family = m.family
		c.model = m.Name
	}

	return nil
}
