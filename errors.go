// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

import (
	"errors"

	"github.com/pion/dtls-flight/pkg/protocol"
)

// Typed errors.
var (
	// ErrTimeout is returned by Send when the flight could not be
	// acknowledged within the total timeout budget.
	ErrTimeout = &TimeoutError{Err: errors.New("flight transmission exceeded the total timeout")} //nolint:err113

	// ErrReadTimeout is returned by RecordConn.Peek when no data arrived
	// within the requested timeout.
	ErrReadTimeout = &TimeoutError{Err: errors.New("no data arrived within the timeout")} //nolint:err113

	// ErrWouldBlock is returned in non-blocking mode (a zero
	// retransmission timeout) whenever an operation would have to block.
	// The flight stays buffered so the caller can invoke Send again.
	ErrWouldBlock = &TemporaryError{Err: errors.New("operation would block")} //nolint:err113

	//nolint:err113
	errEmptyFlight = &InternalError{Err: errors.New("flight has no buffered messages")}
	//nolint:err113
	errEpochUnderflow = &InternalError{Err: errors.New("epoch usage count would become negative")}
	//nolint:err113
	errInvalidSenderState = &InternalError{Err: errors.New("invalid state machine transition")}
	//nolint:err113
	errMessageTooLarge = &FatalError{Err: errors.New("handshake message exceeds the 24-bit length field")}
	//nolint:err113
	errNilConn = &FatalError{Err: errors.New("FlightSender can not be created with a nil RecordConn")}
	//nolint:err113
	errNilEpochProvider = &FatalError{Err: errors.New("FlightSender can not be created with a nil EpochProvider")}
	//nolint:err113
	errRecordTooLarge = &FatalError{Err: errors.New("record payload exceeds the 16-bit length field")}
)

// FatalError indicates that the DTLS connection is no longer available.
// It is mainly caused by wrong configuration of server or client.
type FatalError = protocol.FatalError

// InternalError indicates an internal error caused by the implementation,
// and the DTLS connection is no longer available.
// It is mainly caused by bugs or tried to use unimplemented features.
type InternalError = protocol.InternalError

// TemporaryError indicates that the DTLS connection is still available,
// but the request was failed temporary.
type TemporaryError = protocol.TemporaryError

// TimeoutError indicates that the request was timed out.
type TimeoutError = protocol.TimeoutError
