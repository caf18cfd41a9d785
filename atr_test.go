// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package multicard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseATR(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ATR
		err  bool
	}{
		{"Plain", "3b80800101", ATR{0x3b, 0x80, 0x80, 0x01, 0x01}, false},
		{"Colons", "3B:80:80:01:01", ATR{0x3b, 0x80, 0x80, 0x01, 0x01}, false},
		{"Spaces", "3B 80 80 01 01", ATR{0x3b, 0x80, 0x80, 0x01, 0x01}, false},
		{"Empty", "", ATR{}, false},
		{"Odd length", "3B8", nil, true},
		{"Not hex", "3G", nil, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseATR(test.in)
			if test.err {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestATRString(t *testing.T) {
	assert.Equal(t, "3B 80 80 01 01", ATR{0x3b, 0x80, 0x80, 0x01, 0x01}.String())
	assert.Equal(t, "", ATR(nil).String())
}

func TestMatch(t *testing.T) {
	fingerprint := []byte{0x3b, 0x7f, 0x12, 0x6a}
	mask := []byte{0xff, 0xff, 0x00, 0xf0}

	tests := []struct {
		name      string
		candidate []byte
		want      bool
	}{
		{"Identical", []byte{0x3b, 0x7f, 0x12, 0x6a}, true},
		{"Ignored byte differs", []byte{0x3b, 0x7f, 0xee, 0x6a}, true},
		{"Ignored nibble differs", []byte{0x3b, 0x7f, 0x12, 0x6f}, true},
		{"Significant nibble differs", []byte{0x3b, 0x7f, 0x12, 0x7a}, false},
		{"Significant byte differs", []byte{0x3b, 0x7e, 0x12, 0x6a}, false},
		{"Shorter", []byte{0x3b, 0x7f, 0x12}, false},
		{"Longer", []byte{0x3b, 0x7f, 0x12, 0x6a, 0x00}, false},
		{"Empty", []byte{}, false},
		{"Nil", nil, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, Match(test.candidate, fingerprint, mask))
		})
	}
}

func TestMatchMismatchingMask(t *testing.T) {
	assert.False(t, Match([]byte{0x3b, 0x7f}, []byte{0x3b, 0x7f}, []byte{0xff}))
}

func TestNewPatternPanics(t *testing.T) {
	assert.PanicsWithError(t, "fingerprint and mask length mismatch: fingerprint=2B, mask=1B", func() {
		NewPattern([]byte{0x3b, 0x7f}, []byte{0xff})
	})
}

func forEachModel(t *testing.T, f func(t *testing.T, e Entry, m Model)) {
	for _, e := range Registry() {
		for _, m := range e.Models {
			t.Run(e.Family.String()+"/"+m.Name, func(t *testing.T) {
				f(t, e, m)
			})
		}
	}
}

func TestRegistryPatternLengths(t *testing.T) {
	forEachModel(t, func(t *testing.T, _ Entry, m Model) {
		assert.Len(t, m.Pattern.Mask, len(m.Pattern.Fingerprint))
		assert.GreaterOrEqual(t, len(m.Pattern.Fingerprint), 2)
		assert.LessOrEqual(t, len(m.Pattern.Fingerprint), 33)
	})
}

func TestPatternMatchesItself(t *testing.T) {
	forEachModel(t, func(t *testing.T, _ Entry, m Model) {
		assert.True(t, m.Pattern.Match(m.Pattern.Fingerprint))
	})
}

func TestPatternRejectsOtherLengths(t *testing.T) {
	forEachModel(t, func(t *testing.T, _ Entry, m Model) {
		fp := m.Pattern.Fingerprint

		assert.False(t, m.Pattern.Match(fp[:len(fp)-1]))
		assert.False(t, m.Pattern.Match(append(append([]byte{}, fp...), 0x00)))
	})
}

func TestPatternIgnoresMaskedBits(t *testing.T) {
	forEachModel(t, func(t *testing.T, _ Entry, m Model) {
		p := m.Pattern

		for i, mb := range p.Mask {
			for bit := 0; bit < 8; bit++ {
				flip := byte(1) << bit
				candidate := append([]byte{}, p.Fingerprint...)
				candidate[i] ^= flip

				if mb&flip == 0 {
					assert.True(t, p.Match(candidate), "Flipping ignored bit %d of byte %d changed the result", bit, i)
				} else {
					assert.False(t, p.Match(candidate), "Flipping significant bit %d of byte %d did not change the result", bit, i)
				}
			}
		}
	})
}
