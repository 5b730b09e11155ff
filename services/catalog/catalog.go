package catalog

import (
	"context"
	"sort"
	"sync"

	"devicedesk/models"
	"devicedesk/services/deviceinfo"
	"devicedesk/services/registry"
)

// CatalogService is the surface the handlers talk to: booking mutations pass
// straight through to the registry, listings come back enriched with
// provider metadata and sorted by device name.
type CatalogService interface {
	Book(device, user string) (models.DeviceRecord, error)
	Return(device, user string) (models.DeviceRecord, error)
	Latest(ctx context.Context) ([]models.EnrichedDevice, error)
}

// DefaultCatalogService joins the booking registry with the device-info
// provider.
type DefaultCatalogService struct {
	Registry   registry.BookingRegistry
	DeviceInfo deviceinfo.DeviceInfoAPI
}

func (s *DefaultCatalogService) Book(device, user string) (models.DeviceRecord, error) {
	return s.Registry.Book(device, user)
}

func (s *DefaultCatalogService) Return(device, user string) (models.DeviceRecord, error) {
	return s.Registry.Return(device, user)
}

// Latest snapshots the registry and enriches every record with provider
// metadata. Lookups run concurrently, one per record; the result is complete
// only once all of them have resolved, and a single lookup failure fails the
// whole listing. The final slice is sorted by device name ascending so the
// output does not depend on completion order.
func (s *DefaultCatalogService) Latest(ctx context.Context) ([]models.EnrichedDevice, error) {
	records := s.Registry.List()

	type lookupResult struct {
		Enriched models.EnrichedDevice
		Err      error
	}

	resultsCh := make(chan lookupResult, len(records))
	var wg sync.WaitGroup

	for _, record := range records {
		wg.Add(1)
		go func(record models.DeviceRecord) {
			defer wg.Done()
			enriched, err := s.enrich(ctx, record)
			resultsCh <- lookupResult{Enriched: enriched, Err: err}
		}(record)
	}

	wg.Wait()
	close(resultsCh)

	devices := make([]models.EnrichedDevice, 0, len(records))
	for res := range resultsCh {
		if res.Err != nil {
			return nil, res.Err
		}
		devices = append(devices, res.Enriched)
	}

	sort.Slice(devices, func(i, j int) bool {
		return devices[i].DeviceName() < devices[j].DeviceName()
	})
	return devices, nil
}

// enrich merges the first provider entry whose DeviceName exactly equals the
// record's device name. No match means no enrichment, not an error.
func (s *DefaultCatalogService) enrich(ctx context.Context, record models.DeviceRecord) (models.EnrichedDevice, error) {
	candidates, err := s.DeviceInfo.Device(ctx, record.Device)
	if err != nil {
		return nil, err
	}
	for _, specs := range candidates {
		if specs.Name() == record.Device {
			return models.Enrich(record, specs), nil
		}
	}
	return models.Enrich(record, nil), nil
}
