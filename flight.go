// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

import (
	"github.com/pion/dtls-flight/pkg/protocol"
	"github.com/pion/dtls-flight/pkg/protocol/handshake"
)

// Message is one buffered handshake-layer unit awaiting transmission.
// Messages are owned by the flight from the moment they are buffered
// and are only discarded when the whole flight is retired.
type Message struct {
	// ContentType is the outer record type the message is sent under,
	// ContentTypeHandshake or ContentTypeChangeCipherSpec.
	ContentType protocol.ContentType

	// Type is the handshake message type. Unused for change_cipher_spec.
	Type handshake.Type

	// Epoch names the keying material the record layer must protect
	// this message with, on the first attempt and on every retransmit.
	Epoch uint16

	// Sequence is the handshake message sequence number.
	Sequence uint16

	// Data is the encoded message body.
	Data []byte
}

// Flight is the ordered sequence of messages one side must send before
// it can expect the peer's next response.
//
//	Although each flight of messages may consist of a number
//	of messages, they should be viewed as monolithic for the
//	purpose of timeout and retransmission.
//	https://tools.ietf.org/html/rfc4347#section-4.2.4
//
// The order of the slice is the transmission order and is preserved
// across retransmissions; handshake sequence numbers are
// order-sensitive.
type Flight struct {
	messages []*Message
}

func (f *Flight) add(msg *Message) {
	f.messages = append(f.messages, msg)
}

func (f *Flight) clear() {
	f.messages = nil
}

// Len returns the number of buffered messages.
func (f *Flight) Len() int {
	return len(f.messages)
}

// Messages returns the buffered messages in transmission order.
func (f *Flight) Messages() []*Message {
	return f.messages
}
