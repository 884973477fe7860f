// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package recordlayer implements the DTLS record layer framing
package recordlayer

import (
	"encoding/binary"

	"github.com/pion/dtls-flight/internal/util"
	"github.com/pion/dtls-flight/pkg/protocol"
)

// HeaderSize is the static size of a DTLS record header.
const HeaderSize = 13

// MaxSequenceNumber is the largest sequence number representable in the
// uint48 field of a record header.
const MaxSequenceNumber = 0x0000FFFFFFFFFFFF

// Header is the static first 13 bytes of each DTLS record.
//
// https://tools.ietf.org/html/rfc4346#section-6.2.1
type Header struct {
	ContentType    protocol.ContentType
	Version        protocol.Version
	Epoch          uint16
	SequenceNumber uint64 // uint48 in spec
	ContentLen     uint16
}

// Marshal encodes the Header.
func (h *Header) Marshal() ([]byte, error) {
	if h.SequenceNumber > MaxSequenceNumber {
		return nil, errSequenceNumberOverflow
	}

	out := make([]byte, HeaderSize)
	out[0] = byte(h.ContentType)
	out[1] = h.Version.Major
	out[2] = h.Version.Minor
	binary.BigEndian.PutUint16(out[3:], h.Epoch)
	util.PutBigEndianUint48(out[5:], h.SequenceNumber)
	binary.BigEndian.PutUint16(out[11:], h.ContentLen)

	return out, nil
}

// Unmarshal populates the Header from the start of a record.
func (h *Header) Unmarshal(data []byte) error {
	if len(data) < HeaderSize {
		return errBufferTooSmall
	}

	h.ContentType = protocol.ContentType(data[0])
	h.Version.Major = data[1]
	h.Version.Minor = data[2]
	h.Epoch = binary.BigEndian.Uint16(data[3:])

	// SequenceNumber is stored as uint48, make into uint64
	seqCopy := make([]byte, 8)
	copy(seqCopy[2:], data[5:11])
	h.SequenceNumber = binary.BigEndian.Uint64(seqCopy)

	h.ContentLen = binary.BigEndian.Uint16(data[11:])

	return nil
}
