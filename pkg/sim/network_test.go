package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

func twoTierLocations() []*entities.LocationRecord {
	return []*entities.LocationRecord{
		{LocationID: "PERPETUAL", Type: entities.Perpetual},
		{LocationID: "ED", Type: entities.PAR, Capacity: 1000},
		{LocationID: "ICU", Type: entities.PAR, Capacity: 1000},
	}
}

func TestBuildNetwork_WiresEmergencyConnections(t *testing.T) {
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "PERPETUAL", TargetLevel: 100, LeadTimeDays: 2},
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 50, LeadTimeDays: 7, DemandRate: 10},
		{SKUID: "SKU_001", LocationID: "ICU", TargetLevel: 30, LeadTimeDays: 7, DemandRate: 5},
	})
	require.NoError(t, err)

	ed, ok := net.Get(entities.InstanceKey{LocationID: "ED", SKUID: "SKU_001"})
	require.True(t, ok)
	require.NotNil(t, ed.PerpetualKey)
	assert.Equal(t, entities.InstanceKey{LocationID: "PERPETUAL", SKUID: "SKU_001"}, *ed.PerpetualKey)

	perp, ok := net.Get(entities.InstanceKey{LocationID: "PERPETUAL", SKUID: "SKU_001"})
	require.True(t, ok)
	assert.Len(t, perp.PARKeys, 2)
	// Reverse list is held in priority order.
	assert.Equal(t, entities.LocationID("ED"), perp.PARKeys[0].LocationID)
	assert.Equal(t, entities.LocationID("ICU"), perp.PARKeys[1].LocationID)
}

func TestBuildNetwork_UnconnectedPAR(t *testing.T) {
	// The perpetual location does not stock SKU_002: the PAR instance runs
	// without an emergency connection.
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_002", LocationID: "ED", TargetLevel: 50, LeadTimeDays: 7, DemandRate: 10},
	})
	require.NoError(t, err)

	ed, ok := net.Get(entities.InstanceKey{LocationID: "ED", SKUID: "SKU_002"})
	require.True(t, ok)
	assert.False(t, ed.Connected())
}

func TestBuildNetwork_ConfigurationDefects(t *testing.T) {
	testCases := []struct {
		name      string
		locations []*entities.LocationRecord
		skus      []*entities.SKUMasterRecord
		wantErr   string
	}{
		{
			name:      "no locations",
			locations: nil,
			wantErr:   "at least one location",
		},
		{
			name: "no perpetual location",
			locations: []*entities.LocationRecord{
				{LocationID: "ED", Type: entities.PAR},
			},
			wantErr: "exactly one perpetual location, found none",
		},
		{
			name: "two perpetual locations",
			locations: []*entities.LocationRecord{
				{LocationID: "P1", Type: entities.Perpetual},
				{LocationID: "P2", Type: entities.Perpetual},
			},
			wantErr: "exactly one perpetual location",
		},
		{
			name:      "unknown location reference",
			locations: twoTierLocations(),
			skus: []*entities.SKUMasterRecord{
				{SKUID: "SKU_001", LocationID: "PHARMACY", TargetLevel: 10, LeadTimeDays: 7},
			},
			wantErr: "unknown location PHARMACY",
		},
		{
			name:      "duplicate instance",
			locations: twoTierLocations(),
			skus: []*entities.SKUMasterRecord{
				{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 10, LeadTimeDays: 7},
				{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 20, LeadTimeDays: 7},
			},
			wantErr: "duplicate SKU instance",
		},
		{
			name:      "negative lead time",
			locations: twoTierLocations(),
			skus: []*entities.SKUMasterRecord{
				{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 10, LeadTimeDays: -2},
			},
			wantErr: "lead time cannot be negative",
		},
		{
			name:      "zero target with demand",
			locations: twoTierLocations(),
			skus: []*entities.SKUMasterRecord{
				{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 0, LeadTimeDays: 7, DemandRate: 5},
			},
			wantErr: "target level must be positive",
		},
		{
			name: "capacity exceeded",
			locations: []*entities.LocationRecord{
				{LocationID: "PERPETUAL", Type: entities.Perpetual},
				{LocationID: "ED", Type: entities.PAR, Capacity: 40},
			},
			skus: []*entities.SKUMasterRecord{
				{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 50, LeadTimeDays: 7, DemandRate: 5},
			},
			wantErr: "exceeds capacity",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := BuildNetwork(tc.locations, tc.skus)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestNetwork_ValidateDetectsCorruptedEdges(t *testing.T) {
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "PERPETUAL", TargetLevel: 100, LeadTimeDays: 2},
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 50, LeadTimeDays: 7, DemandRate: 10},
	})
	require.NoError(t, err)
	require.NoError(t, net.Validate())

	// PAR pointing at an instance that does not exist.
	ed, _ := net.Get(entities.InstanceKey{LocationID: "ED", SKUID: "SKU_001"})
	ed.PerpetualKey = &entities.InstanceKey{LocationID: "PERPETUAL", SKUID: "SKU_404"}
	assert.ErrorContains(t, net.Validate(), "missing perpetual instance")

	// Perpetual listing a PAR that does not reference it back.
	ed.PerpetualKey = nil
	assert.ErrorContains(t, net.Validate(), "does not reference perpetual")
}

func TestNetwork_DeterministicKeyOrder(t *testing.T) {
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_002", LocationID: "ICU", TargetLevel: 10, LeadTimeDays: 7},
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 10, LeadTimeDays: 7},
		{SKUID: "SKU_001", LocationID: "PERPETUAL", TargetLevel: 10, LeadTimeDays: 2},
	})
	require.NoError(t, err)

	keys := net.Keys()
	require.Len(t, keys, 3)
	for i := 1; i < len(keys); i++ {
		assert.True(t, keys[i-1].Less(keys[i]), "keys out of order at %d", i)
	}
}
