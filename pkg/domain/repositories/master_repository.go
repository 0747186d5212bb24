package repositories

import "github.com/arash-simuland/cedars-sub000/pkg/domain/entities"

// LocationRepository provides access to location definitions.
type LocationRepository interface {
	GetLocations() ([]*entities.LocationRecord, error)
	LoadLocations(locations []*entities.LocationRecord) error
}

// SKUMasterRepository provides access to the SKU master list.
type SKUMasterRepository interface {
	GetSKUs() ([]*entities.SKUMasterRecord, error)
	LoadSKUs(skus []*entities.SKUMasterRecord) error
}
