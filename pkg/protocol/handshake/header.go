// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import (
	"encoding/binary"

	"github.com/pion/dtls-flight/internal/util"
)

// HeaderLength is the length of the fixed header that precedes every
// handshake fragment on the wire.
const HeaderLength = 12

// Header is the static first 12 bytes of each handshake fragment.
// When a message is fragmented Length describes the whole message,
// FragmentOffset/FragmentLength the piece carried by this record.
//
// https://tools.ietf.org/html/rfc4347#section-4.2.2
type Header struct {
	Type            Type
	Length          uint32 // uint24 in spec
	MessageSequence uint16
	FragmentOffset  uint32 // uint24 in spec
	FragmentLength  uint32 // uint24 in spec
}

// Marshal encodes the Header.
func (h *Header) Marshal() ([]byte, error) {
	if h.Length > MaxMessageLength ||
		h.FragmentOffset > MaxMessageLength ||
		h.FragmentLength > MaxMessageLength {
		return nil, errMessageTooLarge
	}

	out := make([]byte, HeaderLength)
	out[0] = byte(h.Type)
	util.PutBigEndianUint24(out[1:], h.Length)
	binary.BigEndian.PutUint16(out[4:], h.MessageSequence)
	util.PutBigEndianUint24(out[6:], h.FragmentOffset)
	util.PutBigEndianUint24(out[9:], h.FragmentLength)

	return out, nil
}

// Unmarshal populates the Header from a handshake fragment. data may
// carry the fragment body after the fixed header; the body is checked
// against the declared fragment length but not retained.
func (h *Header) Unmarshal(data []byte) error {
	if len(data) < HeaderLength {
		return errBufferTooSmall
	}

	h.Type = Type(data[0])
	h.Length = util.BigEndianUint24(data[1:])
	h.MessageSequence = binary.BigEndian.Uint16(data[4:])
	h.FragmentOffset = util.BigEndianUint24(data[6:])
	h.FragmentLength = util.BigEndianUint24(data[9:])

	if len(data) > HeaderLength && uint32(len(data)-HeaderLength) < h.FragmentLength {
		return errLengthMismatch
	}

	return nil
}
