package models

import "time"

// DeviceRecord is the registry's per-device booking state. The set of
// records is fixed at startup; only Booked, User and BookingDate change.
type DeviceRecord struct {
	Device      string    `json:"device"`
	Booked      bool      `json:"booked"`
	User        string    `json:"user,omitempty"`
	BookingDate time.Time `json:"bookingDate,omitempty"`
}

// DeviceSpecs is one metadata entry returned by the device-info provider.
// The field set is open-ended; DeviceName is the join key.
type DeviceSpecs map[string]any

// Name returns the provider's DeviceName field, or "" when absent.
func (s DeviceSpecs) Name() string {
	name, _ := s["DeviceName"].(string)
	return name
}

// EnrichedDevice is a DeviceRecord flattened together with the matching
// provider metadata. Registry fields win on key collision. It is built fresh
// for every listing and never persisted.
type EnrichedDevice map[string]any

// Enrich merges the booking record over the provider metadata. A nil specs
// map yields the plain record.
func Enrich(record DeviceRecord, specs DeviceSpecs) EnrichedDevice {
	merged := make(EnrichedDevice, len(specs)+4)
	for k, v := range specs {
		merged[k] = v
	}
	merged["device"] = record.Device
	merged["booked"] = record.Booked
	if record.Booked {
		merged["user"] = record.User
	} else {
		delete(merged, "user")
	}
	if !record.BookingDate.IsZero() {
		merged["bookingDate"] = record.BookingDate
	}
	return merged
}

// DeviceName returns the identifier the listing is sorted by.
func (e EnrichedDevice) DeviceName() string {
	name, _ := e["device"].(string)
	return name
}
