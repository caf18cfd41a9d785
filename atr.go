// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package multicard

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ATR is the Answer-To-Reset a card returns after an electrical or warm reset.
type ATR []byte

// ParseATR decodes a hexadecimal ATR. Whitespace and colons between bytes
// are ignored, so both "3B7F00" and "3B:7F:00" are accepted.
func ParseATR(s string) (ATR, error) {
	s = strings.Map(func(r rune) rune {
		switch r {
		case ' ', ':', '\t', '\n':
			return -1
		}
		return r
	}, s)

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ATR: %w", err)
	}

	return ATR(b), nil
}

// String returns the upper-case, space separated hex representation.
func (a ATR) String() string {
	return hexSpaced(a)
}

// Pattern is a known ATR value together with a mask selecting its
// significant bits. A set mask bit means the bit must match.
type Pattern struct {
	Fingerprint []byte
	Mask        []byte
}

// NewPattern returns a pattern for the fingerprint and mask. It panics if
// both differ in length as this can only be caused by a broken table.
func NewPattern(fingerprint, mask []byte) Pattern {
	if len(fingerprint) != len(mask) {
		panic(fmt.Errorf("%w: fingerprint=%dB, mask=%dB", ErrInvalidFingerprint, len(fingerprint), len(mask)))
	}

	return Pattern{
		Fingerprint: fingerprint,
		Mask:        mask,
	}
}

// Match reports whether atr matches the pattern.
func (p Pattern) Match(atr []byte) bool {
	return Match(atr, p.Fingerprint, p.Mask)
}

// Match compares candidate against fingerprint under mask. Lengths must be
// equal; there is no prefix matching.
func Match(candidate, fingerprint, mask []byte) bool {
	if len(candidate) != len(fingerprint) || len(fingerprint) != len(mask) {
		return false
	}

	for i, m := range mask {
		if candidate[i]&m != fingerprint[i]&m {
			return false
		}
	}

	return true
}

func hexSpaced(b []byte) string {
	var sb strings.Builder
	for i, c := range b {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", c)
	}
	return sb.String()
}
