// Package handlers implements the device-facing and app-facing HTTP
// endpoints of the relay. Handlers validate input, call into the shared
// stores, and answer with a plain acknowledgement; no business state lives
// here.
package handlers

import (
	"go.uber.org/zap"

	"github.com/smartfarm/backend/storage"
	"github.com/smartfarm/backend/store"
)

var (
	state        *store.State
	mailbox      *store.Mailbox
	sounds       *storage.SoundStore
	syncDeviceID string
	logger       *zap.Logger
)

// Init wires the shared stores into the handler set. Call once at startup
// before registering routes.
func Init(s *store.State, m *store.Mailbox, ss *storage.SoundStore, syncDevice string, log *zap.Logger) {
	state = s
	mailbox = m
	sounds = ss
	syncDeviceID = syncDevice
	logger = log
}
