// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package multicard

import (
	"slices"

	iso "cunicu.li/go-iso7816"
	"cunicu.li/go-iso7816/filter"
)

// HasFamily matches cards of any of the given families. The family is
// resolved from the ATR, so the card must be open.
func HasFamily(families ...Family) filter.Filter {
	return func(card iso.PCSCCard) (bool, error) {
		if card == nil {
			return false, filter.ErrOpen
		}

		atr, err := readATR(card)
		if err != nil {
			return false, err
		}

		return slices.Contains(families, Identify(atr)), nil
	}
}

// IsSupported matches cards of every registered family.
func IsSupported(card iso.PCSCCard) (bool, error) {
	if card == nil {
		return false, filter.ErrOpen
	}

	atr, err := readATR(card)
	if err != nil {
		return false, err
	}

	_, ok := Resolve(atr)
	return ok, nil
}
