// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package recordlayer

import "errors"

// Typed errors
var (
	errBufferTooSmall         = errors.New("buffer is too small")
	errSequenceNumberOverflow = errors.New("sequence number overflow")
)
