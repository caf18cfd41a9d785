// SPDX-FileCopyrightText: 2023-2024 Steffen Vogel <post@steffenvogel.de>
// SPDX-License-Identifier: Apache-2.0

package multicard

import iso "cunicu.li/go-iso7816"

// CERES proprietary instructions
const insSignData iso.Instruction = 0x5a

// Selection modes for SELECT (P1).
const (
	SelectByFileID byte = 0x00
	SelectByName   byte = 0x04
)

// SelectFile returns a SELECT command for the file or application id.
// No response is requested.
func SelectFile(p1 byte, id []byte) Command {
	return NewCommand(ClassStandard, iso.InsSelect, p1, 0x00, id)
}

// GetResponse returns a GET RESPONSE command fetching le bytes which the
// card announced with SW 61xx. Card.Transmit follows 61xx on its own.
func GetResponse(le int) Command {
	return NewCommand(ClassStandard, iso.InsGetResponse, 0x00, 0x00, nil).WithLe(le)
}

// SignData returns the CERES command signing the data loaded into the card
// beforehand. The signature is 128 bytes long (RSA 1024).
func SignData() Command {
	return NewCommand(ClassProprietary, insSignData, 0x80, 0x01, nil).WithLe(128)
}
