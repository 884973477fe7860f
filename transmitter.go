// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

import (
	"github.com/pion/dtls-flight/pkg/protocol"
	"github.com/pion/dtls-flight/pkg/protocol/handshake"
)

// transmit sends one buffered message to the peer through the record
// layer, returning the number of payload bytes accepted.
//
// change_cipher_spec bypasses fragmentation entirely: it goes out as a
// single record under its own outer type. Everything else is chopped to
// the configured MTU; the first send error stops the remaining
// fragments, since the whole flight is retransmitted anyway on timeout.
func (s *FlightSender) transmit(msg *Message) (int, error) {
	if msg.ContentType == protocol.ContentTypeChangeCipherSpec {
		return s.conn.Send(protocol.ContentTypeChangeCipherSpec, 0, msg.Epoch, msg.Data)
	}

	fragments, err := fragmentMessage(msg, s.mtu)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i, fragment := range fragments {
		s.log.Tracef("[sender:%s] sending %s (seq %d) fragment %d/%d, %d bytes",
			srvCliStr(s.isClient), msg.Type, msg.Sequence, i+1, len(fragments), len(fragment)-handshake.HeaderLength)

		n, err := s.conn.Send(protocol.ContentTypeHandshake, msg.Type, msg.Epoch, fragment)
		if err != nil {
			return sent, err
		}
		sent += n
	}

	return sent, nil
}
