package store

import "github.com/smartfarm/backend/models"

// Events receives domain events emitted by the state store after the
// underlying register has been committed. Implementations must tolerate
// being called from concurrent requests.
type Events interface {
	// SettingsUpdated fires after a settings merge has been applied.
	SettingsUpdated(settings models.Settings)

	// AlertRaised fires after a detection has been recorded and its alert
	// appended to the log.
	AlertRaised(alert models.Alert, payload models.Detection)
}

// NopEvents discards all events. Used in tests and as the default sink.
type NopEvents struct{}

func (NopEvents) SettingsUpdated(models.Settings)            {}
func (NopEvents) AlertRaised(models.Alert, models.Detection) {}
