// SPDX-FileCopyrightText: 2020 Google LLC
// SPDX-License-Identifier: Apache-2.0

package multicard

import (
	"fmt"

	iso "cunicu.li/go-iso7816"
)

// Class is the CLA byte of a command APDU.
type Class byte

// Command classes used by this package.
const (
	ClassStandard Class = 0x00
	ClassChained  Class = 0x10 // ISO/IEC 7816-4 5.1.1

	// ClassProprietary is used by the CERES card operating system.
	ClassProprietary Class = 0x90
)

// maxShortLength is the largest value of the single byte Lc and Le fields.
const maxShortLength = iso.MaxLenCommandDataStandard

// Case is one of the four ISO/IEC 7816-4 command cases.
type Case int

const (
	Case1 Case = iota + 1 // no data, no Le
	Case2                 // Le only
	Case3                 // data only
	Case4                 // data and Le
)

// Command is a short form command APDU. Commands are values; the With*
// methods return modified copies.
type Command struct {
	cla   Class
	ins   iso.Instruction
	p1    byte
	p2    byte
	data  []byte
	le    int
	hasLe bool
}

// NewCommand returns a command without an expected response length. A nil
// or empty data slice both mean the command carries no data.
func NewCommand(cla Class, ins iso.Instruction, p1, p2 byte, data []byte) Command {
	return Command{cla: cla, ins: ins, p1: p1, p2: p2, data: data}
}

// WithLe returns a copy of c expecting le response bytes. Zero requests
// as many bytes as the card has available.
func (c Command) WithLe(le int) Command {
	c.le = le
	c.hasLe = true
	return c
}

// Class returns the CLA byte.
func (c Command) Class() Class { return c.cla }

// Instruction returns the INS byte.
func (c Command) Instruction() iso.Instruction { return c.ins }

// Params returns P1 and P2.
func (c Command) Params() (p1, p2 byte) { return c.p1, c.p2 }

// Data returns the command data, if any.
func (c Command) Data() []byte { return c.data }

// Le returns the expected response length and whether it is present.
func (c Command) Le() (int, bool) { return c.le, c.hasLe }

// Case returns the ISO/IEC 7816-4 case of the command.
func (c Command) Case() Case {
	switch {
	case len(c.data) == 0 && !c.hasLe:
		return Case1
	case len(c.data) == 0:
		return Case2
	case !c.hasLe:
		return Case3
	default:
		return Case4
	}
}

func (c Command) check() error {
	if n := len(c.data); n > maxShortLength {
		return fmt.Errorf("%w: data=%dB, max=%dB", ErrInvalidAPDULength, n, maxShortLength)
	}

	if c.hasLe && (c.le < 0 || c.le > maxShortLength) {
		return fmt.Errorf("%w: le=%d, want 0..%d", ErrInvalidAPDULength, c.le, maxShortLength)
	}

	return nil
}

// CAPDU converts the command for sending through an iso.Card. An Le of
// zero becomes Ne=256. The same length limits as for Encode apply, so the
// result always encodes in short form.
func (c Command) CAPDU() (*iso.CAPDU, error) {
	if err := c.check(); err != nil {
		return nil, err
	}

	capdu := &iso.CAPDU{
		Cla:  byte(c.cla),
		Ins:  c.ins,
		P1:   c.p1,
		P2:   c.p2,
		Data: c.data,
	}

	if c.hasLe {
		capdu.Ne = c.le
		if c.le == 0 {
			capdu.Ne = iso.MaxLenResponseDataStandard
		}
	}

	return capdu, nil
}

// Encode serializes the command. Data longer than 255 bytes and Le values
// outside 0..255 are rejected with ErrInvalidAPDULength; extended length
// encoding is not supported.
func (c Command) Encode() ([]byte, error) {
	capdu, err := c.CAPDU()
	if err != nil {
		return nil, err
	}

	return capdu.Bytes()
}

// Build encodes a command in one go. At most one expected response length
// may be passed.
func Build(cla Class, ins iso.Instruction, p1, p2 byte, data []byte, le ...int) ([]byte, error) {
	c := NewCommand(cla, ins, p1, p2, data)

	switch len(le) {
	case 0:
	case 1:
		c = c.WithLe(le[0])
	default:
		return nil, fmt.Errorf("%w: got %d expected lengths", ErrInvalidAPDULength, len(le))
	}

	return c.Encode()
}
