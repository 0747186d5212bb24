package memory

import (
	"fmt"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/repositories"
)

// SKUMasterRepository provides in-memory SKU master storage
type SKUMasterRepository struct {
	skus  []entities.SKUMasterRecord
	index map[entities.InstanceKey]int
}

// NewSKUMasterRepository creates a new in-memory SKU master repository
func NewSKUMasterRepository(expectedSKUs int) *SKUMasterRepository {
	return &SKUMasterRepository{
		skus:  make([]entities.SKUMasterRecord, 0, expectedSKUs),
		index: make(map[entities.InstanceKey]int, expectedSKUs),
	}
}

// Verify interface compliance
var _ repositories.SKUMasterRepository = (*SKUMasterRepository)(nil)

// LoadSKUs loads SKU master records into the repository
func (r *SKUMasterRepository) LoadSKUs(skus []*entities.SKUMasterRecord) error {
	for _, sku := range skus {
		key := entities.InstanceKey{LocationID: sku.LocationID, SKUID: sku.SKUID}
		if _, exists := r.index[key]; exists {
			return fmt.Errorf("duplicate SKU instance: %s", key)
		}
		r.index[key] = len(r.skus)
		r.skus = append(r.skus, *sku)
	}
	return nil
}

// GetSKUs returns all SKU master records
func (r *SKUMasterRepository) GetSKUs() ([]*entities.SKUMasterRecord, error) {
	var skus []*entities.SKUMasterRecord
	for i := range r.skus {
		skus = append(skus, &r.skus[i])
	}
	return skus, nil
}

// GetSKU returns the master record for one SKU instance
func (r *SKUMasterRepository) GetSKU(skuID entities.SKUID, locationID entities.LocationID) (*entities.SKUMasterRecord, error) {
	key := entities.InstanceKey{LocationID: locationID, SKUID: skuID}
	index, exists := r.index[key]
	if !exists {
		return nil, fmt.Errorf("SKU instance not found: %s", key)
	}
	return &r.skus[index], nil
}
