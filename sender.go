// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

// Package dtls implements the reliability layer of a DTLS handshake:
// it fragments buffered handshake messages to the MTU, transmits them
// as one flight and retransmits the whole flight until the peer
// acknowledges it or a timeout budget runs out.
package dtls

import (
	"errors"
	"time"

	"github.com/pion/dtls-flight/pkg/protocol"
	"github.com/pion/dtls-flight/pkg/protocol/handshake"
	"github.com/pion/logging"
)

const (
	defaultMTU = 1200 // bytes

	defaultRetransmissionTimeout = time.Second
	defaultTotalTimeout          = time.Minute
)

// Config collects the parameters of a FlightSender. A zero Config is
// usable; defaults are applied by NewFlightSender.
type Config struct {
	// MTU is the handshake-layer payload budget of one outgoing
	// fragment, before the record layer adds its own framing.
	MTU int

	// IsClient tells the sender which side of the handshake it drives.
	// Together with Resumed it decides whether the peer still owes a
	// reply after a Finished message.
	IsClient bool

	// Resumed marks a session-resumption handshake.
	Resumed bool

	// RetransmissionTimeout is the silence interval after which the
	// flight is sent again. Zero together with a zero TotalTimeout
	// selects the defaults; see SetTimeouts for non-blocking mode.
	RetransmissionTimeout time.Duration

	// TotalTimeout is the budget across all retransmissions before the
	// transmission fails with ErrTimeout.
	TotalTimeout time.Duration

	LoggerFactory logging.LoggerFactory
}

// FlightSender reliably delivers flights of handshake messages over an
// unreliable datagram transport. It is not safe for concurrent use; one
// handshake session is driven by one flow of control at a time.
type FlightSender struct {
	conn   RecordConn
	epochs EpochProvider

	flight       Flight
	nextSequence uint16

	mtu      int
	isClient bool
	resumed  bool

	retransmissionTimeout time.Duration
	totalTimeout          time.Duration

	log logging.LeveledLogger
}

// NewFlightSender creates a FlightSender sending through conn and
// accounting epoch usage through epochs.
func NewFlightSender(conn RecordConn, epochs EpochProvider, config *Config) (*FlightSender, error) {
	if conn == nil {
		return nil, errNilConn
	}
	if epochs == nil {
		return nil, errNilEpochProvider
	}
	if config == nil {
		config = &Config{}
	}

	loggerFactory := config.LoggerFactory
	if loggerFactory == nil {
		loggerFactory = logging.NewDefaultLoggerFactory()
	}

	mtu := config.MTU
	if mtu <= 0 {
		mtu = defaultMTU
	}

	retransmissionTimeout := config.RetransmissionTimeout
	totalTimeout := config.TotalTimeout
	if retransmissionTimeout == 0 && totalTimeout == 0 {
		retransmissionTimeout = defaultRetransmissionTimeout
		totalTimeout = defaultTotalTimeout
	}

	return &FlightSender{
		conn:                  conn,
		epochs:                epochs,
		mtu:                   mtu,
		isClient:              config.IsClient,
		resumed:               config.Resumed,
		retransmissionTimeout: retransmissionTimeout,
		totalTimeout:          totalTimeout,
		log:                   loggerFactory.NewLogger("flight"),
	}, nil
}

// SetTimeouts configures the retransmission interval and the total
// budget of a flight transmission. No validation is performed. A zero
// retransmission timeout switches Send to non-blocking mode: anything
// that would block returns ErrWouldBlock instead, so the state machine
// can be driven from an external event loop.
func (s *FlightSender) SetTimeouts(retransmission, total time.Duration) {
	s.retransmissionTimeout = retransmission
	s.totalTimeout = total
}

// Flight exposes the buffered flight.
func (s *FlightSender) Flight() *Flight {
	return &s.flight
}

// Buffer queues one encoded handshake message for the next flight. The
// message is assigned the next handshake message sequence number and
// takes a usage reference on its epoch; the reference is dropped when
// the flight is retired.
func (s *FlightSender) Buffer(typ handshake.Type, epoch uint16, data []byte) error {
	if len(data) > handshake.MaxMessageLength {
		return errMessageTooLarge
	}

	e, err := s.epochs.GetEpoch(epoch)
	if err != nil {
		return err
	}
	e.retain()

	s.flight.add(&Message{
		ContentType: protocol.ContentTypeHandshake,
		Type:        typ,
		Epoch:       epoch,
		Sequence:    s.nextSequence,
		Data:        data,
	})
	s.nextSequence++

	return nil
}

// BufferChangeCipherSpec queues a change_cipher_spec record for the
// next flight. It travels under its own outer type, carries no
// handshake header and does not consume a message sequence number.
func (s *FlightSender) BufferChangeCipherSpec(epoch uint16) error {
	e, err := s.epochs.GetEpoch(epoch)
	if err != nil {
		return err
	}
	e.retain()

	s.flight.add(&Message{
		ContentType: protocol.ContentTypeChangeCipherSpec,
		Epoch:       epoch,
		Data:        []byte{0x01},
	})

	return nil
}

// transmission tracks the progress of one Send call across
// retransmission attempts.
type transmission struct {
	lastContent protocol.ContentType
	lastType    handshake.Type
	elapsed     time.Duration
}

// Send transmits the buffered flight in order, flushes the transport
// and retransmits the whole flight whenever the retransmission timeout
// passes without a sign of the peer, until the total timeout budget is
// exhausted.
//
// Every return except ErrWouldBlock retires the flight: all epoch
// references are dropped exactly once and the buffer is cleared, on
// success and on failure alike. ErrWouldBlock keeps the flight
// buffered so a caller-driven event loop can invoke Send again.
func (s *FlightSender) Send() error {
	if s.flight.Len() == 0 {
		return errEmptyFlight
	}

	s.log.Tracef("[sender:%s] start of flight transmission, %d message(s)",
		srvCliStr(s.isClient), s.flight.Len())

	trans := &transmission{}
	state := senderSending
	var err error
	for {
		s.log.Tracef("[sender:%s] %s", srvCliStr(s.isClient), state)

		switch state {
		case senderSending:
			state, err = s.stepSend(trans)
		case senderWaiting:
			state, err = s.stepWait(trans)
		case senderDone, senderFailed:
			return s.retire(err)
		default:
			return s.retire(errInvalidSenderState)
		}

		if errors.Is(err, ErrWouldBlock) {
			return err
		}
	}
}

// stepSend transmits every buffered message in flight order and flushes
// the transport. A send error does not stop the flush: whatever was
// already queued still goes out before the error is acted on. A flush
// error wins over a send error, both are fatal.
func (s *FlightSender) stepSend(trans *transmission) (senderState, error) {
	var sendErr error
	for _, msg := range s.flight.messages {
		if _, err := s.transmit(msg); err != nil && sendErr == nil {
			sendErr = err
		}
		trans.lastContent = msg.ContentType
		trans.lastType = msg.Type
	}

	if err := s.conn.Flush(); err != nil {
		return senderFailed, err
	}
	if sendErr != nil {
		return senderFailed, sendErr
	}

	return senderWaiting, nil
}

// stepWait watches the transport for up to the retransmission timeout
// and decides between success, retransmit and failure. The wait always
// counts against the total budget, no matter how it ended.
func (s *FlightSender) stepWait(trans *transmission) (senderState, error) {
	next := senderDone

	if s.expectsNoReply(trans) {
		// The peer will not answer this flight. Silence means the
		// Finished message arrived; an incoming handshake record means
		// the peer is still resending its previous flight and ours was
		// lost on the way.
		var buf [1]byte
		n, err := s.conn.Peek(buf[:], s.retransmissionTimeout)
		switch {
		case errors.Is(err, ErrWouldBlock):
			return senderWaiting, ErrWouldBlock
		case errors.Is(err, ErrReadTimeout):
			next = senderDone
		case err != nil:
			return senderFailed, err
		case n > 0 && protocol.ContentType(buf[0]) == protocol.ContentTypeHandshake:
			s.log.Debugf("[sender:%s] peer is retransmitting, resending flight", srvCliStr(s.isClient))
			next = senderSending
		}
	} else {
		// Any incoming byte implicitly acknowledges the flight: the
		// peer has moved on.
		_, err := s.conn.Peek(nil, s.retransmissionTimeout)
		switch {
		case errors.Is(err, ErrWouldBlock):
			return senderWaiting, ErrWouldBlock
		case errors.Is(err, ErrReadTimeout):
			next = senderSending
		case err != nil:
			return senderFailed, err
		}
	}

	trans.elapsed += s.retransmissionTimeout
	if trans.elapsed >= s.totalTimeout {
		return senderFailed, ErrTimeout
	}

	return next, nil
}

// expectsNoReply reports whether the flight just sent closes the
// handshake, meaning no further incoming handshake record is expected:
// Finished sent by the server on a full handshake, or by the client on
// a resumed one.
func (s *FlightSender) expectsNoReply(trans *transmission) bool {
	if trans.lastContent != protocol.ContentTypeHandshake || trans.lastType != handshake.TypeFinished {
		return false
	}
	if s.isClient {
		return s.resumed
	}

	return !s.resumed
}

// retire drops every epoch reference the flight holds and clears the
// buffer. It runs on every terminal path; a release error surfaces
// unless the transmission already failed with something earlier.
func (s *FlightSender) retire(result error) error {
	if err := s.releaseFlight(); err != nil && result == nil {
		result = err
	}
	s.flight.clear()

	if result == nil {
		s.log.Tracef("[sender:%s] end of flight transmission", srvCliStr(s.isClient))
	}

	return result
}

func srvCliStr(isClient bool) string {
	if isClient {
		return "client"
	}

	return "server"
}
