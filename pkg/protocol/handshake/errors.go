// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package handshake

import "errors"

// Typed errors
var (
	errBufferTooSmall  = errors.New("buffer is too small")
	errLengthMismatch  = errors.New("data length and declared length do not match")
	errMessageTooLarge = errors.New("handshake message does not fit in the length field")
)
