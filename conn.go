// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

import (
	"errors"
	"math"
	"net"
	"time"

	"github.com/pion/dtls-flight/pkg/protocol"
	"github.com/pion/dtls-flight/pkg/protocol/handshake"
	"github.com/pion/dtls-flight/pkg/protocol/recordlayer"
)

const inboundBufferSize = 8192

// RecordConn is the record-layer surface the FlightSender drives. A
// full DTLS stack implements it on top of its encrypting record layer;
// FromConn provides a plaintext implementation over any net.Conn.
type RecordConn interface {
	// Send protects data under the given epoch and queues it as one
	// record of the given outer type, returning the number of payload
	// bytes accepted. handshakeType names the inner message for
	// handshake records and is ignored for other content types.
	Send(contentType protocol.ContentType, handshakeType handshake.Type, epoch uint16, data []byte) (int, error)

	// Flush pushes every queued record to the transport.
	Flush() error

	// Peek waits up to timeout for incoming data and copies it into p
	// without consuming it. It returns ErrReadTimeout when the wait
	// expires. A zero timeout makes Peek non-blocking: it returns
	// ErrWouldBlock when nothing is pending.
	Peek(p []byte, timeout time.Duration) (int, error)
}

// FromConn wraps a net.Conn in a RecordConn that frames each record
// with a plaintext DTLS record header and writes it as one datagram on
// Flush. It is meant for tests and for transports that handle
// protection themselves; nothing is encrypted here.
func FromConn(conn net.Conn) RecordConn {
	return &recordConn{
		conn:            conn,
		sequenceNumbers: map[uint16]uint64{},
	}
}

type recordConn struct {
	conn  net.Conn
	queue [][]byte

	// record sequence numbers restart at zero for each epoch
	sequenceNumbers map[uint16]uint64

	// last datagram observed by Peek, kept for the receive path
	peeked []byte
}

func (c *recordConn) Send(contentType protocol.ContentType, _ handshake.Type, epoch uint16, data []byte) (int, error) {
	if len(data) > math.MaxUint16 {
		return 0, errRecordTooLarge
	}

	header := &recordlayer.Header{
		ContentType:    contentType,
		Version:        protocol.Version1_2,
		Epoch:          epoch,
		SequenceNumber: c.sequenceNumbers[epoch],
		ContentLen:     uint16(len(data)),
	}
	raw, err := header.Marshal()
	if err != nil {
		return 0, err
	}
	c.sequenceNumbers[epoch]++

	c.queue = append(c.queue, append(raw, data...))

	return len(data), nil
}

func (c *recordConn) Flush() error {
	defer func() {
		c.queue = nil
	}()

	for _, datagram := range c.queue {
		if _, err := c.conn.Write(datagram); err != nil {
			return err
		}
	}

	return nil
}

func (c *recordConn) Peek(p []byte, timeout time.Duration) (int, error) {
	if len(c.peeked) == 0 {
		deadline := timeout
		if deadline == 0 {
			// An already expired deadline fails the read before the
			// socket is consulted, so a datagram sitting in its buffer
			// would never be seen. Keep the deadline in the future to
			// get one real read attempt.
			deadline = time.Millisecond
		}
		if err := c.conn.SetReadDeadline(time.Now().Add(deadline)); err != nil {
			return 0, err
		}

		buf := make([]byte, inboundBufferSize)
		n, err := c.conn.Read(buf)
		_ = c.conn.SetReadDeadline(time.Time{})
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				if timeout == 0 {
					return 0, ErrWouldBlock
				}

				return 0, ErrReadTimeout
			}

			return 0, err
		}
		c.peeked = buf[:n]
	}

	return copy(p, c.peeked), nil
}
