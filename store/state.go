// Package store keeps the relay's in-memory registers: latest detection,
// alert log, device status, motor state, sound inventories, settings and the
// per-device command mailbox. Nothing here survives a restart.
package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartfarm/backend/models"
)

// AlertLogCap bounds the alert log; the oldest entry is evicted on overflow.
const AlertLogCap = 50

// ErrInvalidMotorState rejects motor values outside {ON, OFF}.
var ErrInvalidMotorState = errors.New("motor state must be ON or OFF")

// State is the process-wide register set. All operations take the single
// mutex, so every read/modify/write sequence is a critical section.
type State struct {
	mu sync.Mutex

	latest   models.Detection
	alerts   []models.Alert
	lastSeen map[string]time.Time
	motor    models.MotorState
	sounds   map[string][]string
	settings models.Settings

	onlineWindow time.Duration
	events       Events

	now func() time.Time
}

// NewState creates a state store reporting devices online while their last
// report is within onlineWindow. Events must not be nil; use NopEvents to
// discard.
func NewState(events Events, onlineWindow time.Duration) *State {
	return &State{
		lastSeen:     make(map[string]time.Time),
		motor:        models.MotorOff,
		sounds:       make(map[string][]string),
		settings:     models.DefaultSettings(),
		onlineWindow: onlineWindow,
		events:       events,
		now:          time.Now,
	}
}

// RecordDetection stores payload as the latest detection and appends a
// derived alert to the front of the log, evicting from the tail past the cap.
// Confidence defaults to 0.5 when missing or non-numeric, time to the
// ingestion timestamp.
func (s *State) RecordDetection(payload models.Detection) models.Alert {
	now := s.now()

	confidence := 0.5
	if v, ok := payload["confidence"].(float64); ok {
		confidence = v
	}

	detectedAt := now.UTC().Format(time.RFC3339)
	if v, ok := payload["time"].(string); ok && v != "" {
		detectedAt = v
	}

	deviceID, _ := payload["device_id"].(string)

	alert := models.Alert{
		ID:         uuid.NewString(),
		DeviceID:   deviceID,
		Confidence: confidence,
		Time:       detectedAt,
		ReceivedAt: now,
	}

	s.mu.Lock()
	s.latest = payload
	s.alerts = append([]models.Alert{alert}, s.alerts...)
	if len(s.alerts) > AlertLogCap {
		s.alerts = s.alerts[:AlertLogCap]
	}
	s.mu.Unlock()

	s.events.AlertRaised(alert, payload)
	return alert
}

// LatestDetection returns the last raw detection payload, or nil.
func (s *State) LatestDetection() models.Detection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Alerts returns a copy of the alert log, newest first.
func (s *State) Alerts() []models.Alert {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// Heartbeat refreshes the device's last-seen timestamp, creating the status
// entry on first contact.
func (s *State) Heartbeat(deviceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen[deviceID] = s.now()
}

// Status reports a device's liveness. Unknown devices read as offline rather
// than erroring; online is computed from the staleness window.
func (s *State) Status(deviceID string) models.DeviceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen, ok := s.lastSeen[deviceID]
	if !ok {
		return models.DeviceStatus{Online: false}
	}
	return models.DeviceStatus{
		Online:   s.now().Sub(seen) <= s.onlineWindow,
		LastSeen: &seen,
	}
}

// ReportMotor applies a device-reported motor state and refreshes the
// reporting device's last-seen timestamp. Invalid states mutate nothing.
func (s *State) ReportMotor(deviceID string, state models.MotorState) error {
	if !state.Valid() {
		return ErrInvalidMotorState
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.motor = state
	s.lastSeen[deviceID] = s.now()
	return nil
}

// SetMotor applies an app-issued motor action to the global state.
func (s *State) SetMotor(state models.MotorState) error {
	if !state.Valid() {
		return ErrInvalidMotorState
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.motor = state
	return nil
}

// Motor returns the global motor state.
func (s *State) Motor() models.MotorState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.motor
}

// Settings returns the current settings record.
func (s *State) Settings() models.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings merges patch into the settings singleton field by field.
// A field is applied only when the supplied JSON value has the expected
// type; absent or mistyped fields are left unchanged and never rejected.
// The updated record is returned and SettingsUpdated fires after commit.
func (s *State) UpdateSettings(patch map[string]interface{}) models.Settings {
	s.mu.Lock()
	if v, ok := patch["confidenceThreshold"].(float64); ok {
		s.settings.ConfidenceThreshold = v
	}
	if v, ok := patch["autoSound"].(bool); ok {
		s.settings.AutoSound = v
	}
	if v, ok := patch["pushAlerts"].(bool); ok {
		s.settings.PushAlerts = v
	}
	if v, ok := patch["volume"].(float64); ok {
		s.settings.Volume = int(v)
	}
	if v, ok := patch["defaultSound"].(string); ok {
		s.settings.DefaultSound = v
	}
	updated := s.settings
	s.mu.Unlock()

	s.events.SettingsUpdated(updated)
	return updated
}

// SyncSounds replaces the device's sound inventory wholesale.
func (s *State) SyncSounds(deviceID string, sounds []string) {
	inventory := make([]string, len(sounds))
	copy(inventory, sounds)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sounds[deviceID] = inventory
}

// Sounds returns the device's reported sound inventory, empty when unknown.
func (s *State) Sounds(deviceID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.sounds[deviceID]))
	copy(out, s.sounds[deviceID])
	return out
}
