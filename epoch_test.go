// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

import (
	"testing"
	"time"

	"github.com/pion/dtls-flight/pkg/protocol"
	"github.com/pion/dtls-flight/pkg/protocol/handshake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEpochUsageCount(t *testing.T) {
	epoch := &Epoch{}

	epoch.retain()
	epoch.retain()
	assert.Equal(t, 2, epoch.UsageCount())

	require.NoError(t, epoch.release())
	require.NoError(t, epoch.release())
	assert.Equal(t, 0, epoch.UsageCount())

	assert.ErrorIs(t, epoch.release(), errEpochUnderflow)
	assert.Equal(t, 0, epoch.UsageCount(), "an underflow must not be clamped into the counter")
}

// Buffering takes one reference per message; releasing the flight drops
// each epoch by exactly the number of messages that referenced it.
func TestReleaseFlightCounts(t *testing.T) {
	epochs := epochMap{1: {}, 2: {}}
	sender := newTestSender(t, &scriptedConn{}, epochs, nil)

	require.NoError(t, sender.Buffer(handshake.TypeClientKeyExchange, 1, []byte{0x01}))
	require.NoError(t, sender.Buffer(handshake.TypeCertificateVerify, 1, []byte{0x02}))
	require.NoError(t, sender.Buffer(handshake.TypeFinished, 2, []byte{0x03}))

	assert.Equal(t, 2, epochs[1].UsageCount())
	assert.Equal(t, 1, epochs[2].UsageCount())

	require.NoError(t, sender.releaseFlight())
	assert.Equal(t, 0, epochs[1].UsageCount())
	assert.Equal(t, 0, epochs[2].UsageCount())
}

// A flight whose references were already dropped must surface the
// bookkeeping bug instead of underflowing silently.
func TestDoubleReleaseSurfaces(t *testing.T) {
	conn := &scriptedConn{peeks: []peekResult{{data: []byte{byte(protocol.ContentTypeApplicationData)}}}}
	epochs := epochMap{0: {}}
	sender := newTestSender(t, conn, epochs, &Config{IsClient: true})
	sender.SetTimeouts(100*time.Millisecond, time.Minute)

	require.NoError(t, sender.Buffer(handshake.TypeClientHello, 0, []byte{0x01}))
	require.NoError(t, sender.releaseFlight())

	assert.ErrorIs(t, sender.Send(), errEpochUnderflow)
	assert.Equal(t, 0, sender.Flight().Len(), "the flight is cleared even on the abort path")
}

func TestReleaseFlightUnknownEpoch(t *testing.T) {
	conn := &scriptedConn{peeks: []peekResult{{data: []byte{byte(protocol.ContentTypeApplicationData)}}}}
	epochs := epochMap{3: {}}
	sender := newTestSender(t, conn, epochs, &Config{IsClient: true})
	sender.SetTimeouts(100*time.Millisecond, time.Minute)

	require.NoError(t, sender.Buffer(handshake.TypeClientHello, 3, []byte{0x01}))
	delete(epochs, 3)

	assert.ErrorIs(t, sender.Send(), errUnknownEpoch)
}

func TestBufferUnknownEpoch(t *testing.T) {
	sender := newTestSender(t, &scriptedConn{}, epochMap{}, nil)
	assert.ErrorIs(t, sender.Buffer(handshake.TypeClientHello, 9, []byte{0x01}), errUnknownEpoch)
	assert.Equal(t, 0, sender.Flight().Len())
}
