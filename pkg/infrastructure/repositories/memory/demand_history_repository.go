package memory

import (
	"sort"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/repositories"
)

// DemandHistoryRepository provides in-memory demand history storage
type DemandHistoryRepository struct {
	records []entities.DemandRecord
	byKey   map[entities.InstanceKey][]int
}

// NewDemandHistoryRepository creates a new in-memory demand history repository
func NewDemandHistoryRepository() *DemandHistoryRepository {
	return &DemandHistoryRepository{
		byKey: make(map[entities.InstanceKey][]int),
	}
}

// Verify interface compliance
var _ repositories.DemandHistoryRepository = (*DemandHistoryRepository)(nil)

// LoadRecords loads demand observations into the repository
func (r *DemandHistoryRepository) LoadRecords(records []*entities.DemandRecord) error {
	for _, rec := range records {
		key := entities.InstanceKey{LocationID: rec.LocationID, SKUID: rec.SKUID}
		r.byKey[key] = append(r.byKey[key], len(r.records))
		r.records = append(r.records, *rec)
	}
	return nil
}

// GetHistory returns all observations for one SKU instance, oldest first
func (r *DemandHistoryRepository) GetHistory(skuID entities.SKUID, locationID entities.LocationID) ([]*entities.DemandRecord, error) {
	key := entities.InstanceKey{LocationID: locationID, SKUID: skuID}
	var history []*entities.DemandRecord
	for _, i := range r.byKey[key] {
		history = append(history, &r.records[i])
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.Before(history[j].Date)
	})
	return history, nil
}

// GetAll returns all demand observations
func (r *DemandHistoryRepository) GetAll() ([]*entities.DemandRecord, error) {
	var records []*entities.DemandRecord
	for i := range r.records {
		records = append(records, &r.records[i])
	}
	return records, nil
}
