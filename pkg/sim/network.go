// Package sim implements the hospital inventory network simulation core: the
// two-tier location/SKU graph, the discrete-event engine, the order-up-to
// replenishment policy and the emergency-allocation rules. The package is
// deterministic and single-threaded; a Network and its Manager serve exactly
// one run.
package sim

import (
	"fmt"
	"sort"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// Network is the arena of SKU instances indexed by (location, SKU), plus the
// location registry. Emergency edges between PAR and Perpetual instances are
// stored as keys into the arena, wired once at build time and read-only
// afterwards.
type Network struct {
	locations    map[entities.LocationID]*entities.Location
	arena        map[entities.InstanceKey]*entities.SKU
	keys         []entities.InstanceKey // sorted for deterministic iteration
	perpetualLoc entities.LocationID
}

// BuildNetwork constructs the location/SKU registry from cleaned records and
// wires every PAR SKU instance to the Perpetual instance of the same item
// when one exists. Any configuration defect aborts construction with a
// diagnostic naming the offending location/SKU pair; nothing is silently
// repaired.
func BuildNetwork(locationRecs []*entities.LocationRecord, skuRecs []*entities.SKUMasterRecord) (*Network, error) {
	if len(locationRecs) == 0 {
		return nil, fmt.Errorf("network requires at least one location")
	}

	net := &Network{
		locations: make(map[entities.LocationID]*entities.Location, len(locationRecs)),
		arena:     make(map[entities.InstanceKey]*entities.SKU, len(skuRecs)),
	}

	for _, rec := range locationRecs {
		if _, exists := net.locations[rec.LocationID]; exists {
			return nil, fmt.Errorf("duplicate location %s", rec.LocationID)
		}
		loc, err := entities.NewLocation(rec.LocationID, rec.Type, entities.Quantity(rec.Capacity))
		if err != nil {
			return nil, err
		}
		if rec.Type == entities.Perpetual {
			if net.perpetualLoc != "" {
				return nil, fmt.Errorf("network must have exactly one perpetual location, found %s and %s",
					net.perpetualLoc, rec.LocationID)
			}
			net.perpetualLoc = rec.LocationID
		}
		net.locations[rec.LocationID] = loc
	}
	if net.perpetualLoc == "" {
		return nil, fmt.Errorf("network must have exactly one perpetual location, found none")
	}

	for _, rec := range skuRecs {
		loc, ok := net.locations[rec.LocationID]
		if !ok {
			return nil, fmt.Errorf("SKU %s references unknown location %s", rec.SKUID, rec.LocationID)
		}

		sku, err := entities.NewSKU(rec.SKUID, rec.LocationID, loc.Type,
			entities.Quantity(rec.TargetLevel), rec.LeadTimeDays, entities.Quantity(rec.DemandRate))
		if err != nil {
			return nil, err
		}
		sku.Description = rec.Description
		sku.UnitOfMeasure = rec.UnitOfMeasure
		sku.UnitCost = rec.UnitCost

		key := sku.Key()
		if _, exists := net.arena[key]; exists {
			return nil, fmt.Errorf("duplicate SKU instance %s", key)
		}
		if err := loc.AddSKU(sku); err != nil {
			return nil, err
		}
		net.arena[key] = sku
	}

	// PAR capacity is a hard bound on the target position.
	for _, loc := range net.locations {
		if loc.Type == entities.PAR && loc.Capacity > 0 && loc.TotalTarget() > loc.Capacity {
			return nil, fmt.Errorf("location %s: total target %g exceeds capacity %g",
				loc.ID, loc.TotalTarget(), loc.Capacity)
		}
	}

	net.wireEmergencyConnections()

	net.keys = make([]entities.InstanceKey, 0, len(net.arena))
	for key := range net.arena {
		net.keys = append(net.keys, key)
	}
	sort.Slice(net.keys, func(i, j int) bool { return net.keys[i].Less(net.keys[j]) })

	if err := net.Validate(); err != nil {
		return nil, err
	}
	return net, nil
}

// wireEmergencyConnections links each PAR instance to the Perpetual instance
// of the same SKU id, when the perpetual location stocks it. PAR instances
// without a counterpart run unconnected; their unmet demand is recorded as
// hospital-level stockout rather than silently dropped.
func (n *Network) wireEmergencyConnections() {
	for key, sku := range n.arena {
		if sku.LocationType != entities.PAR {
			continue
		}
		perpKey := entities.InstanceKey{LocationID: n.perpetualLoc, SKUID: key.SKUID}
		perp, ok := n.arena[perpKey]
		if !ok {
			continue
		}
		pk := perpKey
		sku.PerpetualKey = &pk
		perp.PARKeys = append(perp.PARKeys, key)
	}

	// Keep reverse lists in priority order.
	for _, sku := range n.arena {
		if len(sku.PARKeys) > 1 {
			sort.Slice(sku.PARKeys, func(i, j int) bool { return sku.PARKeys[i].Less(sku.PARKeys[j]) })
		}
	}
}

// Validate checks that every emergency edge is mutually consistent: the
// PAR's perpetual reference resolves, and the perpetual's reverse list
// contains that PAR. A failure indicates a data defect that must be fixed
// upstream and aborts construction.
func (n *Network) Validate() error {
	for _, key := range n.keys {
		sku := n.arena[key]
		if sku.PerpetualKey != nil {
			perp, ok := n.arena[*sku.PerpetualKey]
			if !ok {
				return fmt.Errorf("inconsistent emergency edge: %s references missing perpetual instance %s",
					key, *sku.PerpetualKey)
			}
			if !containsKey(perp.PARKeys, key) {
				return fmt.Errorf("inconsistent emergency edge: perpetual %s does not list PAR %s",
					perp.Key(), key)
			}
		}
		for _, parKey := range sku.PARKeys {
			par, ok := n.arena[parKey]
			if !ok {
				return fmt.Errorf("inconsistent emergency edge: %s lists missing PAR instance %s", key, parKey)
			}
			if par.PerpetualKey == nil || *par.PerpetualKey != key {
				return fmt.Errorf("inconsistent emergency edge: PAR %s does not reference perpetual %s", parKey, key)
			}
		}
	}
	return nil
}

func containsKey(keys []entities.InstanceKey, key entities.InstanceKey) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

// Get returns the SKU instance for a key.
func (n *Network) Get(key entities.InstanceKey) (*entities.SKU, bool) {
	sku, ok := n.arena[key]
	return sku, ok
}

// Location returns a location by id.
func (n *Network) Location(id entities.LocationID) (*entities.Location, bool) {
	loc, ok := n.locations[id]
	return loc, ok
}

// Keys returns all instance keys in sorted order. The slice is shared; do
// not mutate it.
func (n *Network) Keys() []entities.InstanceKey {
	return n.keys
}

// LocationIDs returns all location ids in sorted order.
func (n *Network) LocationIDs() []entities.LocationID {
	ids := make([]entities.LocationID, 0, len(n.locations))
	for id := range n.locations {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PerpetualLocation returns the id of the central reserve location.
func (n *Network) PerpetualLocation() entities.LocationID {
	return n.perpetualLoc
}

// Size returns the number of SKU instances in the network.
func (n *Network) Size() int {
	return len(n.arena)
}
