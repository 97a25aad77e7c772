package store

import "sync"

// Mailbox holds at most one pending command per device. A second enqueue
// before the first drain overwrites the slot; lost updates are accepted.
type Mailbox struct {
	mu    sync.Mutex
	slots map[string]string
}

// NewMailbox creates an empty mailbox.
func NewMailbox() *Mailbox {
	return &Mailbox{
		slots: make(map[string]string),
	}
}

// Enqueue stores command as the pending command for deviceID, creating the
// slot on first use and unconditionally replacing whatever was queued before.
func (m *Mailbox) Enqueue(deviceID, command string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[deviceID] = command
}

// Drain returns the pending command for deviceID and clears the slot in the
// same critical section, so a command is delivered at most once. Draining a
// device that never enqueued returns ok=false.
func (m *Mailbox) Drain(deviceID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	command, ok := m.slots[deviceID]
	if !ok || command == "" {
		return "", false
	}
	delete(m.slots, deviceID)
	return command, true
}

// Pending returns the number of devices with a queued command.
func (m *Mailbox) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, command := range m.slots {
		if command != "" {
			n++
		}
	}
	return n
}
