// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package multicard

// Resolve returns the family of the card which produced atr. The second
// return value is false if no registered card matched, which is a normal
// outcome for unsupported cards.
func Resolve(atr []byte) (Family, bool) {
	m, ok := lookup(atr)
	if !ok {
		return FamilyUnknown, false
	}
	return m.family, true
}

// Identify is like Resolve but returns FamilyUnknown for unsupported cards.
func Identify(atr []byte) Family {
	f, _ := Resolve(atr)
	return f
}

// LookupModel returns the name of the model matching atr.
func LookupModel(atr []byte) (string, bool) {
	m, ok := lookup(atr)
	if !ok {
		return "", false
	}
	return m.Name, true
}

type match struct {
	Model
	family Family
}

func lookup(atr []byte) (match, bool) {
	if len(atr) == 0 {
		return match{}, false
	}

	for _, e := range registry {
		if m, ok := e.Match(atr); ok {
			return match{m, e.Family}, true
		}
	}

	return match{}, false
}
