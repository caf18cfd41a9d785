// SPDX-FileCopyrightText: 2020 Google LLC
// SPDX-License-Identifier: Apache-2.0

package multicard

import (
	"errors"
	"fmt"

	iso "cunicu.li/go-iso7816"
	"cunicu.li/go-iso7816/drivers/pcsc"
	"github.com/ebfe/scard"
)

// pcscContext is the subset of the PC/SC API used by Client.
type pcscContext interface {
	ListReaders() ([]string, error)
	Open(reader string, shared bool) (*iso.Card, error)
	Release() error
}

type scardContext struct {
	*scard.Context
}

func establishContext() (pcscContext, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, err
	}

	return scardContext{ctx}, nil
}

func (c scardContext) Open(reader string, shared bool) (*iso.Card, error) {
	return pcsc.NewCard(c.Context, reader, shared)
}

// statusCard is implemented by cards backed by a PC/SC handle.
type statusCard interface {
	Status() (*scard.CardStatus, error)
}

// readATR returns a copy of the ATR the card reported on its last reset.
func readATR(card iso.PCSCCard) (ATR, error) {
	sc, ok := card.Base().(statusCard)
	if !ok {
		return nil, errNoStatus
	}

	st, err := sc.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to get card status: %w", err)
	}

	if len(st.Atr) == 0 {
		return nil, fmt.Errorf("%w for ATR: got=0B", errUnexpectedLength)
	}

	return append(ATR(nil), st.Atr...), nil
}

// resetCard performs a warm reset.
func resetCard(card iso.PCSCCard) error {
	rc, ok := card.Base().(iso.ReconnectableCard)
	if !ok {
		return errNotReconnectable
	}

	return rc.Reconnect(true)
}

// send transmits cmd within tx. Responses announced by SW 61xx are
// collected by the iso.Card. If the card answers 6Cxx, the command is
// repeated once with the Le it asked for.
func send(tx *iso.Transaction, cmd Command) ([]byte, error) {
	capdu, err := cmd.CAPDU()
	if err != nil {
		return nil, err
	}

	resp, err := tx.Send(capdu)

	var code iso.Code
	if errors.As(err, &code) && code[0] == 0x6c {
		if capdu, err = cmd.WithLe(int(code[1])).CAPDU(); err != nil {
			return nil, err
		}

		resp, err = tx.Send(capdu)
	}

	if err != nil {
		return nil, wrapCode(err)
	}

	return resp, nil
}
