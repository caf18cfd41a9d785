// SPDX-FileCopyrightText: 2020 Google LLC
// SPDX-License-Identifier: Apache-2.0

package multicard

import (
	"errors"
	"fmt"

	iso "cunicu.li/go-iso7816"
)

var (
	// ErrInvalidFingerprint indicates a registry pattern whose fingerprint
	// and mask differ in length.
	ErrInvalidFingerprint = errors.New("fingerprint and mask length mismatch")

	// ErrInvalidAPDULength is returned when command data or the expected
	// response length do not fit the single byte short form.
	ErrInvalidAPDULength = errors.New("invalid APDU length")

	// ErrNoCard is returned by Scan if no reader holds a card which
	// answered to a reset.
	ErrNoCard = errors.New("no smart card found")

	// ErrNotFound is returned when the requested file or application on the
	// smart card is not found.
	ErrNotFound = errors.New("file or application not found")

	errUnexpectedLength = errors.New("unexpected length")
	errContextRelease   = errors.New("failed to release PC/SC context")
	errClosed           = errors.New("card is closed")
	errNoTransaction    = errors.New("no active transaction")
	errNoStatus         = errors.New("card does not report its status")
	errNotReconnectable = errors.New("card can not be reset")
	errFiltered         = errors.New("card rejected by filter")
)

func wrapCode(err error) error {
	c, ok := err.(iso.Code) //nolint:errorlint
	if !ok {
		return err
	}

	switch {
	case c == iso.ErrFileOrAppNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, c)

	case c[0] == 0x6c:
		return WrongLengthError{Available: int(c[1])}

	default:
		return err
	}
}

// WrongLengthError is returned when the card rejected the expected response
// length of a command and reported the number of available bytes (SW 6Cxx).
type WrongLengthError struct {
	Available int
}

func (e WrongLengthError) Error() string {
	return fmt.Sprintf("wrong expected length (%d bytes available)", e.Available)
}
