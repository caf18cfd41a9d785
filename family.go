// SPDX-FileCopyrightText: 2020 Google LLC
// SPDX-License-Identifier: Apache-2.0

package multicard

import "fmt"

// Family enumerates the groups of card models this package can recognize.
// Cards of one family share a command set and are handled by the same driver.
type Family int

// The mapping between known Family values and their descriptions.
//
//nolint:gochecknoglobals
var familyStrings = map[Family]string{
	FamilyUnknown:   "Unknown",
	FamilyDNIe:      "DNIe",
	FamilyCeres:     "CERES",
	FamilySmartCafe: "SmartCafe",
}

// String returns the human-readable description for the given family, or a
// fallback value for any other, unknown family.
func (f Family) String() string {
	if s, ok := familyStrings[f]; ok {
		return s
	}
	return fmt.Sprintf("unknown(0x%02x)", int(f))
}

// Families recognized by this package.
const (
	// FamilyUnknown is returned when an ATR did not match any registered card.
	FamilyUnknown Family = iota

	// FamilyDNIe covers the Spanish national identity card (DNIe) and
	// compatible cards: TIF, DNIe over NFC and FNMT TC 4.30 and newer.
	FamilyDNIe

	// FamilyCeres covers the FNMT-RCM CERES cards (TC, ST, SLE FN19 and FN20).
	FamilyCeres

	// FamilySmartCafe covers Giesecke+Devrient SmartCafe 3.2 cards, contact
	// and contactless, and the G+D Mobile Security Card.
	FamilySmartCafe
)
