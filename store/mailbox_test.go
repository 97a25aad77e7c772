package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailboxDrainDeliversAtMostOnce(t *testing.T) {
	m := NewMailbox()
	m.Enqueue("farm_001", "PLAY_SOUND")

	command, ok := m.Drain("farm_001")
	require.True(t, ok)
	assert.Equal(t, "PLAY_SOUND", command)

	_, ok = m.Drain("farm_001")
	assert.False(t, ok, "second drain without enqueue must return nothing")
}

func TestMailboxEnqueueOverwritesPendingCommand(t *testing.T) {
	m := NewMailbox()
	m.Enqueue("farm_001", "MOTOR_ON")
	m.Enqueue("farm_001", "MOTOR_OFF")

	command, ok := m.Drain("farm_001")
	require.True(t, ok)
	assert.Equal(t, "MOTOR_OFF", command, "second enqueue replaces the first")
}

func TestMailboxDrainUnknownDevice(t *testing.T) {
	m := NewMailbox()

	command, ok := m.Drain("never-seen")
	assert.False(t, ok)
	assert.Empty(t, command)
}

func TestMailboxSlotsAreIndependent(t *testing.T) {
	m := NewMailbox()
	m.Enqueue("farm_001", "MOTOR_ON")
	m.Enqueue("farm_002", "STOP_SOUND")

	command, ok := m.Drain("farm_001")
	require.True(t, ok)
	assert.Equal(t, "MOTOR_ON", command)

	command, ok = m.Drain("farm_002")
	require.True(t, ok)
	assert.Equal(t, "STOP_SOUND", command)
}

func TestMailboxPending(t *testing.T) {
	m := NewMailbox()
	assert.Equal(t, 0, m.Pending())

	m.Enqueue("farm_001", "SYNC_SETTINGS")
	m.Enqueue("farm_002", "SYNC_SETTINGS")
	assert.Equal(t, 2, m.Pending())

	m.Drain("farm_001")
	assert.Equal(t, 1, m.Pending())
}

func TestMailboxConcurrentDrainNeverDuplicates(t *testing.T) {
	m := NewMailbox()

	const rounds = 100
	const drainers = 8

	for i := 0; i < rounds; i++ {
		command := fmt.Sprintf("CMD_%d", i)
		m.Enqueue("farm_001", command)

		var wg sync.WaitGroup
		delivered := make(chan string, drainers)
		for d := 0; d < drainers; d++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if got, ok := m.Drain("farm_001"); ok {
					delivered <- got
				}
			}()
		}
		wg.Wait()
		close(delivered)

		var got []string
		for c := range delivered {
			got = append(got, c)
		}
		require.Len(t, got, 1, "exactly one drain wins per enqueue")
		assert.Equal(t, command, got[0])
	}
}

func TestMailboxConcurrentEnqueueDrainKeepsOneSlot(t *testing.T) {
	m := NewMailbox()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			m.Enqueue("farm_001", fmt.Sprintf("CMD_%d", n))
		}(i)
		go func() {
			defer wg.Done()
			m.Drain("farm_001")
		}()
	}
	wg.Wait()

	// Whatever interleaving happened, at most one command can be left over.
	assert.LessOrEqual(t, m.Pending(), 1)
}
