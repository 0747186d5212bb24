package repositories

import "github.com/arash-simuland/cedars-sub000/pkg/domain/entities"

// DemandHistoryRepository provides access to historical demand observations.
type DemandHistoryRepository interface {
	// GetHistory returns all observations for one SKU instance, oldest first.
	GetHistory(skuID entities.SKUID, locationID entities.LocationID) ([]*entities.DemandRecord, error)
	GetAll() ([]*entities.DemandRecord, error)
	LoadRecords(records []*entities.DemandRecord) error
}

// SafetyStockRepository provides access to pre-computed analytical
// safety-stock reference values.
type SafetyStockRepository interface {
	GetSafetyStock(skuID entities.SKUID, locationID entities.LocationID) (*entities.SafetyStockRecord, bool, error)
	LoadRecords(records []*entities.SafetyStockRecord) error
}
