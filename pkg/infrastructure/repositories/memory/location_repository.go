package memory

import (
	"fmt"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/domain/repositories"
)

// LocationRepository provides in-memory location storage
type LocationRepository struct {
	locations []entities.LocationRecord
	index     map[entities.LocationID]int
}

// NewLocationRepository creates a new in-memory location repository
func NewLocationRepository(expectedLocations int) *LocationRepository {
	return &LocationRepository{
		locations: make([]entities.LocationRecord, 0, expectedLocations),
		index:     make(map[entities.LocationID]int, expectedLocations),
	}
}

// Verify interface compliance
var _ repositories.LocationRepository = (*LocationRepository)(nil)

// LoadLocations loads location records into the repository
func (r *LocationRepository) LoadLocations(locations []*entities.LocationRecord) error {
	for _, loc := range locations {
		if _, exists := r.index[loc.LocationID]; exists {
			return fmt.Errorf("duplicate location: %s", loc.LocationID)
		}
		r.index[loc.LocationID] = len(r.locations)
		r.locations = append(r.locations, *loc)
	}
	return nil
}

// GetLocations returns all location records
func (r *LocationRepository) GetLocations() ([]*entities.LocationRecord, error) {
	var locations []*entities.LocationRecord
	for i := range r.locations {
		locations = append(locations, &r.locations[i])
	}
	return locations, nil
}

// GetLocation returns one location record by ID
func (r *LocationRepository) GetLocation(id entities.LocationID) (*entities.LocationRecord, error) {
	index, exists := r.index[id]
	if !exists {
		return nil, fmt.Errorf("location not found: %s", id)
	}
	return &r.locations[index], nil
}
