package sim

import (
	"sort"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// emergencyRequest is one PAR shortfall awaiting a reserve draw at the end
// of the current week. seq preserves FIFO order among equal keys.
type emergencyRequest struct {
	parKey  entities.InstanceKey
	perpKey entities.InstanceKey
	need    entities.Quantity
	seq     int64
}

// resolveEmergencies settles all shortfalls recorded during the week against
// the perpetual reserve. Transfers happen in the same simulated week with no
// lead time: they model physical on-site reserve draws.
//
// Competing requests are ordered by PAR identifier ascending, a strict
// priority rule: earlier PARs are fully satisfied before later ones receive
// any remainder. The physical transfer is capped at the reserve's available
// level; what the policy controls is the reserve's accounting. Under
// Overdraw the reserve is debited the full request and may go negative;
// under ZeroFloor it is debited only what it shipped and the unmet remainder
// is tallied as hospital-level stockout.
func (e *Engine) resolveEmergencies(week int) {
	if len(e.emergencies) == 0 {
		return
	}

	requests := e.emergencies
	e.emergencies = nil

	sort.Slice(requests, func(i, j int) bool {
		if requests[i].parKey != requests[j].parKey {
			return requests[i].parKey.Less(requests[j].parKey)
		}
		return requests[i].seq < requests[j].seq
	})

	for _, req := range requests {
		perp, ok := e.net.Get(req.perpKey)
		if !ok {
			continue
		}
		par, ok := e.net.Get(req.parKey)
		if !ok {
			continue
		}

		available := perp.Level
		if available < 0 {
			available = 0
		}
		transferred := req.need
		if transferred > available {
			transferred = available
		}

		switch e.policy {
		case Overdraw:
			perp.Level -= req.need
		case ZeroFloor:
			perp.Level -= transferred
		}

		par.Level += transferred
		unmet := req.need - transferred

		if transferred > 0 {
			par.Stats.EmergencyTransfers++
			par.Stats.EmergencyUnits += transferred
			perp.Stats.EmergencyTransfers++
			perp.Stats.EmergencyUnits += transferred
			e.system.EmergencyTransfers++
			e.system.EmergencyUnits += transferred
		}
		if unmet > 0 {
			par.Stats.HospitalStockoutUnits += unmet
			e.system.HospitalStockoutUnits += unmet
		}

		e.transfers = append(e.transfers, TransferRecord{
			Week:          week,
			SKUID:         req.parKey.SKUID,
			From:          req.perpKey,
			To:            req.parKey,
			Requested:     req.need,
			Transferred:   transferred,
			Unmet:         unmet,
			HospitalLevel: unmet > 0,
		})
	}
}
