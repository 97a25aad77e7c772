package models

import "time"

// MotorState enum, global across the farm, last writer wins
type MotorState string

const (
	MotorOn  MotorState = "ON"
	MotorOff MotorState = "OFF"
)

// Valid reports whether s is one of the two accepted motor states.
func (s MotorState) Valid() bool {
	return s == MotorOn || s == MotorOff
}

// Detection is the raw payload a device posts when something is spotted.
// The relay keeps it opaque beyond confidence/time extraction.
type Detection map[string]interface{}

// Alert is the derived summary kept in the bounded alert log, newest first.
type Alert struct {
	ID         string    `json:"id"`
	DeviceID   string    `json:"deviceId,omitempty"`
	Confidence float64   `json:"confidence"`
	Time       string    `json:"time"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// DeviceStatus is the per-device liveness record. Online is computed from
// LastSeen at read time, it is never stored.
type DeviceStatus struct {
	Online   bool       `json:"online"`
	LastSeen *time.Time `json:"lastSeen,omitempty"`
}

// Settings is the global singleton configuration shared by all devices.
type Settings struct {
	ConfidenceThreshold float64 `json:"confidenceThreshold"`
	AutoSound           bool    `json:"autoSound"`
	PushAlerts          bool    `json:"pushAlerts"`
	Volume              int     `json:"volume"`
	DefaultSound        string  `json:"defaultSound"`
}

// DefaultSettings mirrors the defaults baked into the field device firmware.
func DefaultSettings() Settings {
	return Settings{
		ConfidenceThreshold: 0.5,
		AutoSound:           true,
		PushAlerts:          true,
		Volume:              100,
		DefaultSound:        "alert.wav",
	}
}

// Command strings understood by the device clients.
const (
	CommandSyncSettings   = "SYNC_SETTINGS"
	CommandPlaySound      = "PLAY_SOUND"
	CommandStopSound      = "STOP_SOUND"
	CommandMotorPrefix    = "MOTOR_"        // MOTOR_ON / MOTOR_OFF
	CommandUploadPrefix   = "UPLOAD_SOUND:" // UPLOAD_SOUND:<filename>
	CommandSetSoundPrefix = "SET_SOUND:"    // SET_SOUND:<filename>
)
