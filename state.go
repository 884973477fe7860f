// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

// senderState is the explicit state of one flight transmission.
//
//	          +---------+
//	    +---> | SENDING | <-----+
//	    |     +---------+       |
//	    |          |            | Retransmission
//	    |          | Flush      | timeout / peer
//	    |         \|/           | retransmit seen
//	    |     +---------+       |
//	    |     | WAITING | ------+
//	    |     +---------+
//	    |        |    |
//	    |    Ack |    | Fatal error or
//	    |        |    | total timeout
//	    |       \|/  \|/
//	    |   +------+ +--------+
//	    +-- | DONE | | FAILED |
//	        +------+ +--------+
//
// Terminal states retire the flight: epoch references are dropped and
// the buffer is cleared.
type senderState uint8

const (
	senderSending senderState = iota + 1
	senderWaiting
	senderDone
	senderFailed
)

func (s senderState) String() string {
	switch s {
	case senderSending:
		return "Sending"
	case senderWaiting:
		return "Waiting"
	case senderDone:
		return "Done"
	case senderFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}
