// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

import (
	"fmt"
	"testing"

	"github.com/pion/dtls-flight/pkg/protocol"
	"github.com/pion/dtls-flight/pkg/protocol/handshake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reassemble parses fragments and stitches the payload back together.
// Fragments are produced in offset order, so no sorting is needed.
func reassemble(t *testing.T, fragments [][]byte) []byte {
	t.Helper()

	var total []byte
	for _, fragment := range fragments {
		var header handshake.Header
		require.NoError(t, header.Unmarshal(fragment))
		require.Len(t, fragment, handshake.HeaderLength+int(header.FragmentLength))

		if total == nil {
			total = make([]byte, header.Length)
		}
		copy(total[header.FragmentOffset:], fragment[handshake.HeaderLength:])
	}

	return total
}

func TestFragmentRoundTrip(t *testing.T) {
	const mtu = 64

	payload := make([]byte, 3*mtu)
	for i := range payload {
		payload[i] = byte(i)
	}

	for _, length := range []int{0, 1, mtu - 1, mtu, mtu + 1, 3 * mtu} {
		length := length
		t.Run(fmt.Sprintf("length-%d", length), func(t *testing.T) {
			msg := &Message{
				ContentType: protocol.ContentTypeHandshake,
				Type:        handshake.TypeCertificate,
				Sequence:    5,
				Data:        payload[:length],
			}

			fragments, err := fragmentMessage(msg, mtu)
			require.NoError(t, err)

			wantFragments := (length + mtu - 1) / mtu
			if wantFragments == 0 {
				wantFragments = 1
			}
			assert.Len(t, fragments, wantFragments)

			for _, fragment := range fragments {
				var header handshake.Header
				require.NoError(t, header.Unmarshal(fragment))
				assert.Equal(t, handshake.TypeCertificate, header.Type)
				assert.Equal(t, uint32(length), header.Length)
				assert.Equal(t, uint16(5), header.MessageSequence)
			}

			assert.Equal(t, payload[:length], reassemble(t, fragments))
		})
	}
}

// A message whose length is an exact multiple of the MTU must end on a
// full fragment; no trailing zero-length fragment is emitted.
func TestFragmentExactMultiple(t *testing.T) {
	const mtu = 32

	msg := &Message{
		ContentType: protocol.ContentTypeHandshake,
		Type:        handshake.TypeClientKeyExchange,
		Data:        make([]byte, 2*mtu),
	}

	fragments, err := fragmentMessage(msg, mtu)
	require.NoError(t, err)
	require.Len(t, fragments, 2)

	var last handshake.Header
	require.NoError(t, last.Unmarshal(fragments[1]))
	assert.Equal(t, uint32(mtu), last.FragmentOffset)
	assert.Equal(t, uint32(mtu), last.FragmentLength)
}

func TestFragmentZeroLength(t *testing.T) {
	msg := &Message{
		ContentType: protocol.ContentTypeHandshake,
		Type:        handshake.TypeServerHelloDone,
		Sequence:    3,
	}

	fragments, err := fragmentMessage(msg, 64)
	require.NoError(t, err)
	require.Len(t, fragments, 1)
	assert.Len(t, fragments[0], handshake.HeaderLength)

	var header handshake.Header
	require.NoError(t, header.Unmarshal(fragments[0]))
	assert.Equal(t, uint32(0), header.Length)
	assert.Equal(t, uint32(0), header.FragmentLength)
	assert.Equal(t, uint16(3), header.MessageSequence)
}
