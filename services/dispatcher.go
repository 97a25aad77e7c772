// Package services holds the relay's event plumbing: the dispatcher wiring
// state-store events into the mailbox and NATS, and the WebSocket alert hub.
package services

import (
	"encoding/json"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/smartfarm/backend/models"
	"github.com/smartfarm/backend/store"
)

// SubjectDetectionAlert carries one JSON-encoded models.Alert per detection.
const SubjectDetectionAlert = "alerts.detection"

// Dispatcher implements store.Events. Settings updates become a
// SYNC_SETTINGS command for the configured sync device; detection alerts are
// published to NATS for the alert hub. The mailbox enqueue happens on the
// caller's goroutine, strictly after the settings commit, so a device can
// never drain SYNC_SETTINGS before the new settings are readable.
type Dispatcher struct {
	mailbox      *store.Mailbox
	syncDeviceID string
	natsConn     *nats.Conn
	log          *zap.Logger
}

// NewDispatcher creates a dispatcher. natsConn may be nil, in which case
// alert events are only kept in the in-memory log.
func NewDispatcher(mailbox *store.Mailbox, syncDeviceID string, natsConn *nats.Conn, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mailbox:      mailbox,
		syncDeviceID: syncDeviceID,
		natsConn:     natsConn,
		log:          log,
	}
}

// SettingsUpdated queues a SYNC_SETTINGS command so the sync device picks up
// the new settings on its next poll.
func (d *Dispatcher) SettingsUpdated(models.Settings) {
	d.mailbox.Enqueue(d.syncDeviceID, models.CommandSyncSettings)
}

// AlertRaised publishes the alert to the detection subject.
func (d *Dispatcher) AlertRaised(alert models.Alert, _ models.Detection) {
	if d.natsConn == nil {
		return
	}

	data, err := json.Marshal(alert)
	if err != nil {
		d.log.Warn("failed to encode alert event", zap.Error(err))
		return
	}
	if err := d.natsConn.Publish(SubjectDetectionAlert, data); err != nil {
		d.log.Warn("failed to publish alert event", zap.Error(err))
	}
}
