// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

import (
	"fmt"
	"testing"

	"github.com/pion/dtls-flight/pkg/protocol/handshake"
	"github.com/pion/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// traceRecorder keeps every trace line so tests can inspect what the
// sender reported.
type traceRecorder struct {
	lines []string
}

func (l *traceRecorder) Trace(msg string) { l.lines = append(l.lines, msg) }
func (l *traceRecorder) Tracef(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}
func (l *traceRecorder) Debug(string)                  {}
func (l *traceRecorder) Debugf(string, ...interface{}) {}
func (l *traceRecorder) Info(string)                   {}
func (l *traceRecorder) Infof(string, ...interface{})  {}
func (l *traceRecorder) Warn(string)                   {}
func (l *traceRecorder) Warnf(string, ...interface{})  {}
func (l *traceRecorder) Error(string)                  {}
func (l *traceRecorder) Errorf(string, ...interface{}) {}

func (l *traceRecorder) NewLogger(string) logging.LeveledLogger { return l }

func TestTransmitTraceReportsPayloadBytes(t *testing.T) {
	recorder := &traceRecorder{}
	conn := &scriptedConn{}
	epochs := epochMap{0: {}}
	sender := newTestSender(t, conn, epochs, &Config{
		MTU:           40,
		LoggerFactory: recorder,
	})

	require.NoError(t, sender.Buffer(handshake.TypeCertificate, 0, make([]byte, 100)))

	_, err := sender.transmit(sender.Flight().Messages()[0])
	require.NoError(t, err)

	// the reported size is the fragment's payload, not payload plus
	// fragment header
	require.Len(t, recorder.lines, 3)
	assert.Contains(t, recorder.lines[0], "fragment 1/3, 40 bytes")
	assert.Contains(t, recorder.lines[1], "fragment 2/3, 40 bytes")
	assert.Contains(t, recorder.lines[2], "fragment 3/3, 20 bytes")
}
