package registry

import (
	"sync"
	"time"

	"devicedesk/models"
)

// BookingRegistry owns the authoritative booking state of the device pool.
// Conflict outcomes (AlreadyBookedError, NotBookedError, WrongUserError) are
// expected results of normal contention, not faults.
type BookingRegistry interface {
	Book(device, user string) (models.DeviceRecord, error)
	Return(device, user string) (models.DeviceRecord, error)
	List() []models.DeviceRecord
}

// DefaultBookingRegistry keeps every record in one table guarded by a single
// reader/writer lock: writers are exclusive, list snapshots share the read
// lock. The table is small and operations are O(1), so per-record locking
// buys nothing and would break snapshot consistency.
type DefaultBookingRegistry struct {
	mu      sync.RWMutex
	devices map[string]models.DeviceRecord

	now func() time.Time
}

// NewBookingRegistry seeds one unbooked record per configured device. The
// device set never changes afterwards.
func NewBookingRegistry(devices []string) *DefaultBookingRegistry {
	records := make(map[string]models.DeviceRecord, len(devices))
	for _, device := range devices {
		records[device] = models.DeviceRecord{Device: device}
	}
	return &DefaultBookingRegistry{
		devices: records,
		now:     time.Now,
	}
}

// Book marks the device as held by user. It fails with NotFoundError for an
// unknown device and AlreadyBookedError when any user currently holds it;
// state is left untouched on failure.
func (r *DefaultBookingRegistry) Book(device, user string) (models.DeviceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.devices[device]
	if !ok {
		return models.DeviceRecord{}, NotFoundError{Device: device}
	}
	if record.Booked {
		return models.DeviceRecord{}, AlreadyBookedError{Device: device, Holder: record.User}
	}

	record.Booked = true
	record.User = user
	record.BookingDate = r.now()
	r.devices[device] = record
	return record, nil
}

// Return releases the device. Only the current holder may release it.
func (r *DefaultBookingRegistry) Return(device, user string) (models.DeviceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.devices[device]
	if !ok {
		return models.DeviceRecord{}, NotFoundError{Device: device}
	}
	if !record.Booked {
		return models.DeviceRecord{}, NotBookedError{Device: device}
	}
	if record.User != user {
		return models.DeviceRecord{}, WrongUserError{Device: device, Holder: record.User}
	}

	record.Booked = false
	record.User = ""
	record.BookingDate = r.now()
	r.devices[device] = record
	return record, nil
}

// List returns a point-in-time snapshot of every record. Order is
// unspecified; the catalog sorts the enriched view for display.
func (r *DefaultBookingRegistry) List() []models.DeviceRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]models.DeviceRecord, 0, len(r.devices))
	for _, record := range r.devices {
		records = append(records, record)
	}
	return records
}
