package memory

import (
	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/repositories"
)

// SafetyStockRepository provides in-memory storage for analytical
// safety-stock reference values
type SafetyStockRepository struct {
	records []entities.SafetyStockRecord
	index   map[entities.InstanceKey]int
}

// NewSafetyStockRepository creates a new in-memory safety stock repository
func NewSafetyStockRepository() *SafetyStockRepository {
	return &SafetyStockRepository{
		index: make(map[entities.InstanceKey]int),
	}
}

// Verify interface compliance
var _ repositories.SafetyStockRepository = (*SafetyStockRepository)(nil)

// LoadRecords loads safety stock records into the repository. A later
// record for the same instance replaces the earlier one.
func (r *SafetyStockRepository) LoadRecords(records []*entities.SafetyStockRecord) error {
	for _, rec := range records {
		key := entities.InstanceKey{LocationID: rec.LocationID, SKUID: rec.SKUID}
		if i, exists := r.index[key]; exists {
			r.records[i] = *rec
			continue
		}
		r.index[key] = len(r.records)
		r.records = append(r.records, *rec)
	}
	return nil
}

// GetSafetyStock returns the reference value for one SKU instance. The
// second return reports whether a reference exists; a missing reference is
// not an error.
func (r *SafetyStockRepository) GetSafetyStock(skuID entities.SKUID, locationID entities.LocationID) (*entities.SafetyStockRecord, bool, error) {
	key := entities.InstanceKey{LocationID: locationID, SKUID: skuID}
	i, exists := r.index[key]
	if !exists {
		return nil, false, nil
	}
	return &r.records[i], true, nil
}
