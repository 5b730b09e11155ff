package catalog

import (
	"context"
	"testing"
	"time"

	"devicedesk/models"
	"devicedesk/services/deviceinfo"
	"devicedesk/services/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDeviceInfo serves canned metadata per device name, optionally failing
// or delaying individual lookups.
type fakeDeviceInfo struct {
	specs  map[string][]models.DeviceSpecs
	errs   map[string]error
	delays map[string]time.Duration
}

func (f *fakeDeviceInfo) Device(ctx context.Context, name string) ([]models.DeviceSpecs, error) {
	if d, ok := f.delays[name]; ok {
		time.Sleep(d)
	}
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	return f.specs[name], nil
}

func (f *fakeDeviceInfo) Latest(ctx context.Context) ([]models.DeviceSpecs, error) {
	return nil, nil
}

func newService(devices []string, info *fakeDeviceInfo) *DefaultCatalogService {
	return &DefaultCatalogService{
		Registry:   registry.NewBookingRegistry(devices),
		DeviceInfo: info,
	}
}

func TestLatestMergesMatchingSpecs(t *testing.T) {
	svc := newService([]string{"X1"}, &fakeDeviceInfo{
		specs: map[string][]models.DeviceSpecs{
			"X1": {{"DeviceName": "X1", "foo": "bar"}},
		},
	})
	_, err := svc.Book("X1", "alice")
	require.NoError(t, err)

	devices, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)

	assert.Equal(t, "X1", devices[0]["device"])
	assert.Equal(t, true, devices[0]["booked"])
	assert.Equal(t, "alice", devices[0]["user"])
	assert.Equal(t, "bar", devices[0]["foo"])
}

func TestLatestRegistryFieldsWinOnCollision(t *testing.T) {
	svc := newService([]string{"X1"}, &fakeDeviceInfo{
		specs: map[string][]models.DeviceSpecs{
			"X1": {{"DeviceName": "X1", "device": "spoofed", "booked": "yes"}},
		},
	})

	devices, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "X1", devices[0]["device"])
	assert.Equal(t, false, devices[0]["booked"])
}

func TestLatestSelectsExactNameMatch(t *testing.T) {
	svc := newService([]string{"X1"}, &fakeDeviceInfo{
		specs: map[string][]models.DeviceSpecs{
			"X1": {
				{"DeviceName": "X1 Pro", "foo": "wrong"},
				{"DeviceName": "X1", "foo": "right"},
				{"DeviceName": "X1", "foo": "late"},
			},
		},
	})

	devices, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "right", devices[0]["foo"])
}

func TestLatestNoMatchFallsBackToPlainRecord(t *testing.T) {
	svc := newService([]string{"X1"}, &fakeDeviceInfo{
		specs: map[string][]models.DeviceSpecs{
			"X1": {{"DeviceName": "something else", "foo": "bar"}},
		},
	})

	devices, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	assert.Equal(t, "X1", devices[0]["device"])
	assert.Equal(t, false, devices[0]["booked"])
	assert.NotContains(t, devices[0], "foo")
}

func TestLatestSortedRegardlessOfCompletionOrder(t *testing.T) {
	// The lexically-last device resolves first, the first one last.
	svc := newService([]string{"C", "A", "B"}, &fakeDeviceInfo{
		delays: map[string]time.Duration{
			"A": 30 * time.Millisecond,
			"B": 15 * time.Millisecond,
		},
	})

	devices, err := svc.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 3)
	assert.Equal(t, "A", devices[0].DeviceName())
	assert.Equal(t, "B", devices[1].DeviceName())
	assert.Equal(t, "C", devices[2].DeviceName())
}

func TestLatestSingleLookupFailureFailsWholeListing(t *testing.T) {
	svc := newService([]string{"A", "B", "C"}, &fakeDeviceInfo{
		errs: map[string]error{
			"B": deviceinfo.UpstreamError{Op: "getdevice", StatusCode: 503},
		},
	})

	devices, err := svc.Latest(context.Background())
	assert.Nil(t, devices)
	var upstream deviceinfo.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, 503, upstream.StatusCode)
}

func TestBookAndReturnPassThrough(t *testing.T) {
	svc := newService([]string{"A"}, &fakeDeviceInfo{})

	record, err := svc.Book("A", "alice")
	require.NoError(t, err)
	assert.True(t, record.Booked)

	_, err = svc.Return("A", "bob")
	var wrongUser registry.WrongUserError
	require.ErrorAs(t, err, &wrongUser)

	record, err = svc.Return("A", "alice")
	require.NoError(t, err)
	assert.False(t, record.Booked)
}
