package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartfarm/backend/models"
	"github.com/smartfarm/backend/natsserver"
	"github.com/smartfarm/backend/store"
)

func TestSettingsUpdatedQueuesSyncCommand(t *testing.T) {
	mailbox := store.NewMailbox()
	d := NewDispatcher(mailbox, "farm_001", nil, zap.NewNop())

	d.SettingsUpdated(models.DefaultSettings())

	command, ok := mailbox.Drain("farm_001")
	require.True(t, ok)
	assert.Equal(t, models.CommandSyncSettings, command)
}

func TestAlertRaisedPublishesToNATS(t *testing.T) {
	srv, err := natsserver.New(natsserver.Config{Port: -1})
	require.NoError(t, err)
	defer srv.Shutdown()

	received := make(chan *nats.Msg, 1)
	_, err = srv.Subscribe(SubjectDetectionAlert, func(msg *nats.Msg) {
		received <- msg
	})
	require.NoError(t, err)

	d := NewDispatcher(store.NewMailbox(), "farm_001", srv.Conn(), zap.NewNop())
	alert := models.Alert{
		ID:         "a-1",
		DeviceID:   "farm_001",
		Confidence: 0.9,
		Time:       "2026-08-01T10:00:00Z",
		ReceivedAt: time.Now(),
	}
	d.AlertRaised(alert, models.Detection{"confidence": 0.9})

	select {
	case msg := <-received:
		var got models.Alert
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "a-1", got.ID)
		assert.Equal(t, 0.9, got.Confidence)
	case <-time.After(2 * time.Second):
		t.Fatal("alert event never arrived on NATS")
	}
}

func TestAlertRaisedWithoutNATSIsNoop(t *testing.T) {
	d := NewDispatcher(store.NewMailbox(), "farm_001", nil, zap.NewNop())
	// Must not panic when eventing is disabled
	d.AlertRaised(models.Alert{ID: "a-2"}, nil)
}
