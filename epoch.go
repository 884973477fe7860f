// SPDX-FileCopyrightText: 2023 The Pion community <https://pion.ly>
// SPDX-License-Identifier: MIT

package dtls

// Epoch is the usage-counted handle to one generation of keying
// material. The count is only ever moved by this package: buffering a
// message takes a reference, retiring the flight drops it. The owner of
// the actual cipher state must keep it alive while UsageCount is
// non-zero, since retransmissions still protect records under it.
type Epoch struct {
	usageCount int
}

// UsageCount reports how many buffered messages still depend on this
// epoch.
func (e *Epoch) UsageCount() int {
	return e.usageCount
}

func (e *Epoch) retain() {
	e.usageCount++
}

func (e *Epoch) release() error {
	if e.usageCount <= 0 {
		return errEpochUnderflow
	}
	e.usageCount--

	return nil
}

// EpochProvider resolves an epoch identifier to its usage-counted
// state. It is implemented by the owner of the connection's cipher
// state.
type EpochProvider interface {
	GetEpoch(epoch uint16) (*Epoch, error)
}

// releaseFlight drops the usage reference every buffered message holds
// on its epoch, exactly once per message. An underflow means the
// bookkeeping went wrong somewhere else and is surfaced instead of
// clamped.
func (s *FlightSender) releaseFlight() error {
	for _, msg := range s.flight.messages {
		epoch, err := s.epochs.GetEpoch(msg.Epoch)
		if err != nil {
			return err
		}
		if err := epoch.release(); err != nil {
			return err
		}
	}

	return nil
}
