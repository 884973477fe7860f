// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

import "github.com/pion/dtls-flight/pkg/protocol/handshake"

// fragmentMessage splits one buffered handshake message into wire
// fragments of at most mtu payload bytes, each prefixed with the fixed
// 12 byte handshake header. The message itself is not mutated.
//
// A zero-length message yields exactly one fragment with an empty body.
// A message whose length is an exact multiple of the MTU ends on a full
// fragment; no trailing zero-length fragment is emitted.
func fragmentMessage(msg *Message, mtu int) ([][]byte, error) {
	total := len(msg.Data)
	out := make([][]byte, 0, total/mtu+1)

	offset := 0
	for {
		fragLen := total - offset
		if fragLen > mtu {
			fragLen = mtu
		}

		header := &handshake.Header{
			Type:            msg.Type,
			Length:          uint32(total),
			MessageSequence: msg.Sequence,
			FragmentOffset:  uint32(offset),
			FragmentLength:  uint32(fragLen),
		}
		raw, err := header.Marshal()
		if err != nil {
			return nil, err
		}

		out = append(out, append(raw, msg.Data[offset:offset+fragLen]...))

		offset += fragLen
		if offset >= total {
			break
		}
	}

	return out, nil
}
