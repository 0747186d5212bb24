package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

func key(loc, sku string) entities.InstanceKey {
	return entities.InstanceKey{LocationID: entities.LocationID(loc), SKUID: entities.SKUID(sku)}
}

// Order-up-to with a one-week lead time: a shortfall below target triggers a
// delivery exactly one week later and the level settles at target minus one
// week of demand.
func TestRun_OrderUpToTriggersDeliveryAfterLeadTime(t *testing.T) {
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 100, LeadTimeDays: 7, DemandRate: 20},
	})
	require.NoError(t, err)

	mgr, err := NewManager(net, Options{Horizon: 6})
	require.NoError(t, err)
	result := mgr.Run()

	series := result.Series[key("ED", "SKU_001")]
	require.Len(t, series, 6)

	// Week 0: demand 20 leaves 80, order of 20 placed.
	assert.Equal(t, entities.Quantity(80), series[0])
	// Every later week: demand 20, delivery of last week's order 20.
	for w := 1; w < 6; w++ {
		assert.Equal(t, entities.Quantity(80), series[w], "week %d", w)
	}

	// The first delivery arrives in week 1, one week after the shortfall.
	var firstDelivery *ProcessedEvent
	for i := range result.Events {
		if result.Events[i].Kind == entities.KindDelivery {
			firstDelivery = &result.Events[i]
			break
		}
	}
	require.NotNil(t, firstDelivery, "no delivery processed")
	assert.Equal(t, 1, firstDelivery.Week)
	assert.Equal(t, entities.Quantity(20), firstDelivery.Quantity)

	assert.Zero(t, result.System.StockoutEvents)
	assert.Zero(t, result.System.EmergencyTransfers)
}

// A PAR shortfall is clamped at zero, recorded, and covered by a same-week
// emergency draw from the connected perpetual instance.
func TestRun_EmergencyTransferCoversShortfall(t *testing.T) {
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "PERPETUAL", TargetLevel: 50, LeadTimeDays: 2},
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 10, LeadTimeDays: 7},
	})
	require.NoError(t, err)

	ed, _ := net.Get(key("ED", "SKU_001"))
	ed.Level = 5

	mgr, err := NewManager(net, Options{Horizon: 1})
	require.NoError(t, err)
	mgr.Schedule(entities.DemandEvent{Key: key("ED", "SKU_001"), Quantity: 8, Week: 0})
	result := mgr.Run()

	edStats := result.Instances[key("ED", "SKU_001")]
	assert.Equal(t, 1, edStats.StockoutEvents)
	assert.Equal(t, entities.Quantity(3), edStats.StockoutUnits)
	assert.Equal(t, entities.Quantity(3), edStats.EmergencyUnits)
	assert.Zero(t, edStats.HospitalStockoutUnits)

	// Transfer executed the same week; perpetual debited to 47.
	require.Len(t, result.Transfers, 1)
	tr := result.Transfers[0]
	assert.Equal(t, 0, tr.Week)
	assert.Equal(t, entities.Quantity(3), tr.Requested)
	assert.Equal(t, entities.Quantity(3), tr.Transferred)
	assert.Zero(t, tr.Unmet)
	assert.False(t, tr.HospitalLevel)

	assert.Equal(t, entities.Quantity(47), result.Series[key("PERPETUAL", "SKU_001")][0])
	// PAR received the transfer after being clamped at zero.
	assert.Equal(t, entities.Quantity(3), result.Series[key("ED", "SKU_001")][0])
}

// Competing same-week shortfalls resolve by PAR identifier ascending: the
// first PAR is fully satisfied before the next receives anything.
func TestRun_CompetingEmergencyAllocationStrictPriority(t *testing.T) {
	locations := []*entities.LocationRecord{
		{LocationID: "PERPETUAL", Type: entities.Perpetual},
		{LocationID: "A_WARD", Type: entities.PAR},
		{LocationID: "B_WARD", Type: entities.PAR},
	}
	skus := []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "PERPETUAL", TargetLevel: 15, LeadTimeDays: 2},
		{SKUID: "SKU_001", LocationID: "A_WARD", TargetLevel: 10, LeadTimeDays: 7},
		{SKUID: "SKU_001", LocationID: "B_WARD", TargetLevel: 10, LeadTimeDays: 7},
	}

	run := func(policy PerpetualPolicy) *RunResult {
		net, err := BuildNetwork(locations, skus)
		require.NoError(t, err)
		for _, loc := range []string{"A_WARD", "B_WARD"} {
			sku, _ := net.Get(key(loc, "SKU_001"))
			sku.Level = 0
		}
		mgr, err := NewManager(net, Options{Horizon: 1, Policy: policy})
		require.NoError(t, err)
		// Schedule B before A: priority must come from identifiers, not
		// submission order.
		mgr.Schedule(entities.DemandEvent{Key: key("B_WARD", "SKU_001"), Quantity: 10, Week: 0})
		mgr.Schedule(entities.DemandEvent{Key: key("A_WARD", "SKU_001"), Quantity: 10, Week: 0})
		return mgr.Run()
	}

	t.Run("overdraw", func(t *testing.T) {
		result := run(Overdraw)

		require.Len(t, result.Transfers, 2)
		assert.Equal(t, entities.LocationID("A_WARD"), result.Transfers[0].To.LocationID)
		assert.Equal(t, entities.Quantity(10), result.Transfers[0].Transferred)
		assert.Equal(t, entities.LocationID("B_WARD"), result.Transfers[1].To.LocationID)
		assert.Equal(t, entities.Quantity(5), result.Transfers[1].Transferred)
		assert.Equal(t, entities.Quantity(5), result.Transfers[1].Unmet)
		assert.True(t, result.Transfers[1].HospitalLevel)

		// Perpetual debited the full requests: 15 - 10 - 10 = -5.
		assert.Equal(t, entities.Quantity(-5), result.Series[key("PERPETUAL", "SKU_001")][0])
	})

	t.Run("zero floor", func(t *testing.T) {
		result := run(ZeroFloor)

		require.Len(t, result.Transfers, 2)
		assert.Equal(t, entities.Quantity(10), result.Transfers[0].Transferred)
		assert.Equal(t, entities.Quantity(5), result.Transfers[1].Transferred)
		assert.Equal(t, entities.Quantity(5), result.Transfers[1].Unmet)

		// Reserve never goes negative; the remainder is hospital-level.
		assert.Equal(t, entities.Quantity(0), result.Series[key("PERPETUAL", "SKU_001")][0])
		bStats := result.Instances[key("B_WARD", "SKU_001")]
		assert.Equal(t, entities.Quantity(5), bStats.HospitalStockoutUnits)
	})
}

func TestRun_UnconnectedPARRecordsHospitalStockout(t *testing.T) {
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_002", LocationID: "ED", TargetLevel: 10, LeadTimeDays: 7},
	})
	require.NoError(t, err)

	ed, _ := net.Get(key("ED", "SKU_002"))
	ed.Level = 4

	mgr, err := NewManager(net, Options{Horizon: 1})
	require.NoError(t, err)
	mgr.Schedule(entities.DemandEvent{Key: key("ED", "SKU_002"), Quantity: 9, Week: 0})
	result := mgr.Run()

	stats := result.Instances[key("ED", "SKU_002")]
	assert.Equal(t, entities.Quantity(5), stats.StockoutUnits)
	assert.Equal(t, entities.Quantity(5), stats.HospitalStockoutUnits)
	assert.Zero(t, stats.EmergencyUnits)

	require.Len(t, result.Transfers, 1)
	assert.True(t, result.Transfers[0].HospitalLevel)
	assert.Zero(t, result.Transfers[0].Transferred)
}

// PAR levels never go negative, whatever the demand pattern.
func TestRun_PARLevelNeverNegative(t *testing.T) {
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "PERPETUAL", TargetLevel: 30, LeadTimeDays: 2},
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 20, LeadTimeDays: 10, DemandRate: 35},
	})
	require.NoError(t, err)

	mgr, err := NewManager(net, Options{Horizon: 20, Demand: DemandConfig{Mode: DemandNormal, Seed: 7, CV: 0.5}})
	require.NoError(t, err)
	result := mgr.Run()

	for week, level := range result.Series[key("ED", "SKU_001")] {
		assert.GreaterOrEqual(t, float64(level), 0.0, "week %d", week)
	}
}

// With no stockouts and no emergency transfers, inventory is conserved:
// final = initial + deliveries - demand.
func TestRun_Conservation(t *testing.T) {
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 100, LeadTimeDays: 7, DemandRate: 15},
	})
	require.NoError(t, err)

	k := key("ED", "SKU_001")
	initial := entities.Quantity(100)

	mgr, err := NewManager(net, Options{Horizon: 12})
	require.NoError(t, err)
	result := mgr.Run()

	stats := result.Instances[k]
	require.Zero(t, stats.StockoutEvents)
	require.Zero(t, stats.EmergencyTransfers)

	series := result.Series[k]
	final := series[len(series)-1]
	assert.Equal(t, initial+stats.DeliveredUnits-stats.DemandUnits, final)
}

func TestRun_DefaultHorizon(t *testing.T) {
	net, err := BuildNetwork(twoTierLocations(), []*entities.SKUMasterRecord{
		{SKUID: "SKU_001", LocationID: "ED", TargetLevel: 50, LeadTimeDays: 7, DemandRate: 5},
	})
	require.NoError(t, err)

	mgr, err := NewManager(net, Options{})
	require.NoError(t, err)
	result := mgr.Run()

	assert.Equal(t, DefaultHorizon, result.WeeksRun)
	assert.Len(t, result.Series[key("ED", "SKU_001")], DefaultHorizon)
}
