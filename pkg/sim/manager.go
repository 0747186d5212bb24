package sim

import (
	"fmt"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// DefaultHorizon is the default run length in weekly steps.
const DefaultHorizon = 52

// Options configures one simulation run.
type Options struct {
	// Horizon is the run length in weeks; 0 selects DefaultHorizon.
	Horizon int
	Policy  PerpetualPolicy
	Demand  DemandConfig
}

// Manager owns a network for the duration of one run and drives it one
// simulated week at a time. It is an explicit value held by the caller;
// there is no global state. A Manager (and its network) must not be reused
// or shared across runs: Monte Carlo replications each build their own.
type Manager struct {
	net     *Network
	engine  *Engine
	result  *RunResult
	horizon int
	week    int
	seeded  bool
	demand  DemandConfig
}

// NewManager creates a Manager for a single run over the given network.
func NewManager(net *Network, opts Options) (*Manager, error) {
	if net == nil {
		return nil, fmt.Errorf("manager requires a network")
	}
	horizon := opts.Horizon
	if horizon == 0 {
		horizon = DefaultHorizon
	}
	if horizon < 0 {
		return nil, fmt.Errorf("horizon cannot be negative, got %d", horizon)
	}
	if opts.Demand.Mode == DemandNormal && opts.Demand.CV < 0 {
		return nil, fmt.Errorf("demand CV cannot be negative, got %g", opts.Demand.CV)
	}

	return &Manager{
		net:     net,
		engine:  NewEngine(net, opts.Policy),
		result:  newRunResult(horizon, opts.Policy, net.Keys()),
		horizon: horizon,
		demand:  opts.Demand,
	}, nil
}

// Network returns the network this manager drives.
func (m *Manager) Network() *Network {
	return m.net
}

// Schedule injects an event into the run, in addition to anything the
// demand generator seeds. An event scheduled for a week that has already
// been simulated is picked up by the next step; the clock never moves
// backwards.
func (m *Manager) Schedule(ev entities.Event) {
	m.engine.Schedule(ev)
}

// Week returns the next week to be simulated.
func (m *Manager) Week() int {
	return m.week
}

// RunWeek executes one weekly step:
//  1. drain all events scheduled through the current week,
//  2. resolve the emergency-allocation queue,
//  3. run the order-up-to check for every instance (the resulting
//     replenishment events drain within the same step),
//  4. snapshot every instance level into the time series.
//
// Partially applied weeks are never rolled back; a caller wanting early
// termination simply stops calling RunWeek.
func (m *Manager) RunWeek() {
	if m.week >= m.horizon {
		return
	}
	if !m.seeded {
		m.seedDemand()
	}

	w := m.week
	m.engine.drainThrough(w)
	m.engine.resolveEmergencies(w)

	for _, key := range m.net.Keys() {
		m.engine.Schedule(entities.ReplenishmentEvent{Key: key, Week: w})
	}
	m.engine.drainThrough(w)

	for _, key := range m.net.Keys() {
		sku, _ := m.net.Get(key)
		m.result.Series[key] = append(m.result.Series[key], sku.Level)
	}

	m.week++
	m.result.WeeksRun = m.week
}

// Run executes weekly steps until the horizon is reached and returns the
// full result, including every stockout it contains.
func (m *Manager) Run() *RunResult {
	for m.week < m.horizon {
		m.RunWeek()
	}
	return m.Result()
}

// Result finalizes and returns the run output accumulated so far.
func (m *Manager) Result() *RunResult {
	m.result.Events = m.engine.events
	m.result.Transfers = m.engine.transfers
	m.result.System = m.engine.system

	for _, key := range m.net.Keys() {
		sku, _ := m.net.Get(key)
		m.result.Instances[key] = sku.Stats
	}

	locations := make(map[entities.LocationID]LocationStats)
	for _, id := range m.net.LocationIDs() {
		loc, _ := m.net.Location(id)
		stats := LocationStats{SKUCount: len(loc.SKUs), EndingLevel: loc.TotalLevel()}
		for _, sku := range loc.SKUs {
			stats.DemandUnits += sku.Stats.DemandUnits
			stats.StockoutEvents += sku.Stats.StockoutEvents
			stats.StockoutUnits += sku.Stats.StockoutUnits
			stats.EmergencyTransfers += sku.Stats.EmergencyTransfers
			stats.EmergencyUnits += sku.Stats.EmergencyUnits
			stats.HospitalStockoutUnits += sku.Stats.HospitalStockoutUnits
		}
		locations[id] = stats
	}
	m.result.Locations = locations

	return m.result
}

func (m *Manager) seedDemand() {
	gen := newDemandGenerator(m.demand)
	gen.seed(m.engine, m.net, m.horizon)
	m.seeded = true
}
