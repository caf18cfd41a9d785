// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package multicard

import "slices"

type ruleKind int

const (
	ruleExact ruleKind = iota
	ruleMinBytes
)

// Threshold requires the ATR byte at Offset to be at least Min. Both are
// compared as signed two's complement values, so 0x80 to 0xff rank below
// 0x00.
type Threshold struct {
	Offset int
	Min    byte
}

// Rule refines a fingerprint match for models whose fingerprint alone is
// not selective enough. The zero value accepts every fingerprint match.
type Rule struct {
	kind       ruleKind
	thresholds []Threshold
}

// Exact is the rule for models identified by their fingerprint alone.
//
//nolint:gochecknoglobals
var Exact = Rule{kind: ruleExact}

// MinBytes returns a rule which additionally requires every threshold to
// hold. It is used for version numbers embedded in historical bytes.
func MinBytes(ts ...Threshold) Rule {
	return Rule{
		kind:       ruleMinBytes,
		thresholds: ts,
	}
}

// Holds reports whether the rule accepts atr. The fingerprint has been
// matched already, so atr is known to be long enough for any sane offset.
func (r Rule) Holds(atr []byte) bool {
	switch r.kind {
	case ruleExact:
		return true

	case ruleMinBytes:
		for _, t := range r.thresholds {
			if t.Offset < 0 || t.Offset >= len(atr) || int8(atr[t.Offset]) < int8(t.Min) {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// Model is a single card model within a family.
type Model struct {
	Name    string
	Pattern Pattern
	Rule    Rule
}

// Match reports whether atr identifies the model.
func (m Model) Match(atr []byte) bool {
	return m.Pattern.Match(atr) && m.Rule.Holds(atr)
}

// Entry groups the models of one family.
type Entry struct {
	Family Family
	Models []Model
}

// Match returns the first model of the entry matching atr.
func (e Entry) Match(atr []byte) (Model, bool) {
	for _, m := range e.Models {
		if m.Match(atr) {
			return m, true
		}
	}
	return Model{}, false
}

// Registry returns a copy of the supported card families in the order in
// which they are tried. Modifying it does not affect resolution.
func Registry() []Entry {
	entries := make([]Entry, len(registry))
	for i, e := range registry {
		entries[i] = e.clone()
	}
	return entries
}

func (e Entry) clone() Entry {
	models := make([]Model, len(e.Models))
	for i, m := range e.Models {
		models[i] = Model{
			Name: m.Name,
			Pattern: Pattern{
				Fingerprint: slices.Clone(m.Pattern.Fingerprint),
				Mask:        slices.Clone(m.Pattern.Mask),
			},
			Rule: Rule{
				kind:       m.Rule.kind,
				thresholds: slices.Clone(m.Rule.thresholds),
			},
		}
	}

	return Entry{
		Family: e.Family,
		Models: models,
	}
}

// DNIe and compatible cards.
//
//nolint:gochecknoglobals
var (
	maskDNIe = []byte{
		0xff, 0xff, 0x00, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0xff, 0xff,
	}

	atrDNIe = NewPattern([]byte{
		0x3b, 0x7f, 0x00, 0x00, 0x00, 0x00, 0x6a, 0x44,
		0x4e, 0x49, 0x65, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x90, 0x00,
	}, maskDNIe)

	atrTIF = NewPattern([]byte{
		0x3b, 0x7f, 0x00, 0x00, 0x00, 0x00, 0x6a, 0x54,
		0x49, 0x46, 0x31, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x90, 0x00,
	}, maskDNIe)

	atrDNIeNFC = NewPattern([]byte{
		0x3b, 0x88, 0x80, 0x01, 0xe1, 0xf3, 0x5e, 0x11,
		0x77, 0x81, 0xa1, 0x00, 0x03,
	}, []byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0x00, 0xff, 0x00,
	})

	// FNMT TC cards carry their version in bytes 15 and 16.
	atrFNMTTC = NewPattern([]byte{
		0x3b, 0x7f, 0x00, 0x00, 0x00, 0x00, 0x6a, 0x46,
		0x4e, 0x4d, 0x54, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x90, 0x00,
	}, maskDNIe)
)

// FNMT-RCM CERES cards.
//
//nolint:gochecknoglobals
var (
	atrCeresTC = NewPattern([]byte{
		0x3b, 0x7f, 0x00, 0x00, 0x00, 0x00, 0x6a, 0x46,
		0x4e, 0x4d, 0x54, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x03, 0x90, 0x00,
	}, []byte{
		0xff, 0xff, 0x00, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0xff, 0xff, 0xff,
	})

	atrCeresST = NewPattern([]byte{
		0x3b, 0x7f, 0x00, 0x00, 0x00, 0x00, 0x6a, 0x43,
		0x45, 0x52, 0x45, 0x53, 0x02, 0x2c, 0x34, 0x00,
		0x00, 0x03, 0x90, 0x00,
	}, []byte{
		0xff, 0xff, 0x00, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x00,
		0x00, 0xff, 0xff, 0xff,
	})

	maskCeresSLE = []byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff,
	}

	atrCeresSLEFN20 = NewPattern([]byte{
		0x3b, 0xef, 0x00, 0x00, 0x40, 0x14, 0x80, 0x25,
		0x43, 0x45, 0x52, 0x45, 0x53, 0x57, 0x05, 0x60,
		0x01, 0x02, 0x03, 0x90, 0x00,
	}, maskCeresSLE)

	atrCeresSLEFN19 = NewPattern([]byte{
		0x3b, 0xef, 0x00, 0x00, 0x40, 0x14, 0x80, 0x25,
		0x43, 0x45, 0x52, 0x45, 0x53, 0x57, 0x01, 0x16,
		0x01, 0x01, 0x03, 0x90, 0x00,
	}, maskCeresSLE)
)

// Giesecke+Devrient SmartCafe cards.
//
//nolint:gochecknoglobals
var (
	maskSmartCafe = []byte{
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0x0f,
	}

	atrSmartCafe = NewPattern([]byte{
		0x3b, 0xf7, 0x18, 0x00, 0x00, 0x80, 0x31, 0xfe,
		0x45, 0x73, 0x66, 0x74, 0x65, 0x2d, 0x6e, 0x66,
		0xc4,
	}, maskSmartCafe)

	// The contactless variant reports the same ATR through PC/SC.
	atrSmartCafeTCL = NewPattern([]byte{
		0x3b, 0xf7, 0x18, 0x00, 0x00, 0x80, 0x31, 0xfe,
		0x45, 0x73, 0x66, 0x74, 0x65, 0x2d, 0x6e, 0x66,
		0xc4,
	}, maskSmartCafe)

	atrMobileSecurityCard = NewPattern([]byte{
		0x3b, 0x80, 0x80, 0x01, 0x01,
	}, []byte{
		0xff, 0xff, 0xff, 0xff, 0xff,
	})
)

// registry lists the families in priority order. DNIe comes first as the
// FNMT TC fingerprint overlaps with CERES TC.
//
//nolint:gochecknoglobals
var registry = []Entry{
	{
		Family: FamilyDNIe,
		Models: []Model{
			{Name: "DNIe", Pattern: atrDNIe},
			{Name: "TIF", Pattern: atrTIF},
			{Name: "DNIe NFC", Pattern: atrDNIeNFC},
			{Name: "FNMT TC 4.30", Pattern: atrFNMTTC, Rule: MinBytes(
				Threshold{Offset: 15, Min: 0x04},
				Threshold{Offset: 16, Min: 0x30},
			)},
		},
	},
	{
		Family: FamilyCeres,
		Models: []Model{
			{Name: "CERES TC", Pattern: atrCeresTC},
			{Name: "CERES ST", Pattern: atrCeresST},
			{Name: "CERES SLE FN20", Pattern: atrCeresSLEFN20},
			{Name: "CERES SLE FN19", Pattern: atrCeresSLEFN19},
		},
	},
	{
		Family: FamilySmartCafe,
		Models: []Model{
			{Name: "SmartCafe 3.2", Pattern: atrSmartCafe},
			{Name: "Mobile Security Card", Pattern: atrMobileSecurityCard},
			{Name: "SmartCafe 3.2 T=CL", Pattern: atrSmartCafeTCL},
		},
	},
}
