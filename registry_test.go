// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package multicard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleHolds(t *testing.T) {
	version := MinBytes(
		Threshold{Offset: 1, Min: 0x04},
		Threshold{Offset: 2, Min: 0x30},
	)

	tests := []struct {
		name string
		rule Rule
		atr  []byte
		want bool
	}{
		{"Zero value", Rule{}, []byte{0x3b}, true},
		{"Exact", Exact, []byte{0x3b}, true},
		{"Equal to thresholds", version, []byte{0x3b, 0x04, 0x30}, true},
		{"Above thresholds", version, []byte{0x3b, 0x05, 0x7f}, true},
		{"High bit counts as negative", version, []byte{0x3b, 0x04, 0x90}, false},
		{"Both high bits", version, []byte{0x3b, 0xff, 0xff}, false},
		{"First below", version, []byte{0x3b, 0x03, 0x30}, false},
		{"Second below", version, []byte{0x3b, 0x05, 0x2f}, false},
		{"Offset beyond ATR", version, []byte{0x3b, 0x04}, false},
		{"No thresholds", MinBytes(), []byte{0x3b}, true},
		{"Negative offset", MinBytes(Threshold{Offset: -1}), []byte{0x3b}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, test.rule.Holds(test.atr))
		})
	}
}

func TestRuleHoldsNegativeThreshold(t *testing.T) {
	r := MinBytes(Threshold{Offset: 0, Min: 0x90})

	assert.True(t, r.Holds([]byte{0x90}))
	assert.True(t, r.Holds([]byte{0x00}))
	assert.False(t, r.Holds([]byte{0x8f}))
}

func TestEntryMatch(t *testing.T) {
	e := Entry{
		Family: FamilySmartCafe,
		Models: []Model{
			{Name: "first", Pattern: NewPattern([]byte{0x3b, 0x01}, []byte{0xff, 0x00})},
			{Name: "second", Pattern: NewPattern([]byte{0x3b, 0x01}, []byte{0xff, 0xff})},
		},
	}

	m, ok := e.Match([]byte{0x3b, 0x01})
	assert.True(t, ok)
	assert.Equal(t, "first", m.Name, "Models must be tried in order")

	_, ok = e.Match([]byte{0x3c, 0x01})
	assert.False(t, ok)
}

func TestFamilyString(t *testing.T) {
	tests := []struct {
		family Family
		want   string
	}{
		{FamilyUnknown, "Unknown"},
		{FamilyDNIe, "DNIe"},
		{FamilyCeres, "CERES"},
		{FamilySmartCafe, "SmartCafe"},
		{Family(0x42), "unknown(0x42)"},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, test.family.String())
	}
}
