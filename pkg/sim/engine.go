package sim

import (
	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// Engine is the discrete-event core: a single time-ordered queue, a clock,
// and a dispatch table over the event variants. All state mutation flows
// through the queue's total order, so a run is deterministic by
// construction. The engine is owned by a Manager and never shared.
type Engine struct {
	net    *Network
	queue  *eventQueue
	clock  int
	policy PerpetualPolicy

	nextOrderID int64
	emergencies []emergencyRequest
	nextReqSeq  int64

	events    []ProcessedEvent
	transfers []TransferRecord
	system    SystemStats
}

// NewEngine creates an engine over a built network.
func NewEngine(net *Network, policy PerpetualPolicy) *Engine {
	return &Engine{
		net:    net,
		queue:  newEventQueue(),
		policy: policy,
	}
}

// Schedule adds an event to the queue.
func (e *Engine) Schedule(ev entities.Event) {
	e.queue.Push(ev)
}

// Clock returns the current simulated week.
func (e *Engine) Clock() int {
	return e.clock
}

// drainThrough processes every queued event scheduled at or before the given
// week, strictly in (week, insertion) order. The clock only moves forward;
// no event is processed out of chronological order.
func (e *Engine) drainThrough(week int) {
	for e.queue.Len() > 0 && e.queue.Peek().week <= week {
		entry := e.queue.Pop()
		entry.status = entities.StatusProcessing
		if entry.week > e.clock {
			e.clock = entry.week
		}

		switch ev := entry.event.(type) {
		case entities.DemandEvent:
			e.handleDemand(ev)
		case entities.DeliveryEvent:
			e.handleDelivery(ev)
		case entities.ReplenishmentEvent:
			e.handleReplenishment(ev)
		}

		entry.status = entities.StatusCompleted
		e.events = append(e.events, ProcessedEvent{
			Seq:      entry.seq,
			Week:     entry.week,
			Kind:     entry.event.Kind(),
			Key:      entry.event.Instance(),
			Quantity: eventQuantity(entry.event),
			Source:   eventSource(entry.event),
		})
	}
}

func eventQuantity(ev entities.Event) entities.Quantity {
	switch e := ev.(type) {
	case entities.DemandEvent:
		return e.Quantity
	case entities.DeliveryEvent:
		return e.Quantity
	default:
		return 0
	}
}

func eventSource(ev entities.Event) entities.DeliverySource {
	if d, ok := ev.(entities.DeliveryEvent); ok {
		return d.Source
	}
	return entities.SourceSupplier
}

// handleDemand fulfills consumption from on-hand stock. A PAR shortfall
// clamps the level at zero, records the stockout and queues an emergency
// request when a connection exists; without one the shortfall is
// hospital-level immediately.
func (e *Engine) handleDemand(ev entities.DemandEvent) {
	sku, ok := e.net.Get(ev.Key)
	if !ok {
		return
	}

	sku.Stats.DemandUnits += ev.Quantity
	e.system.DemandUnits += ev.Quantity

	if sku.Level >= ev.Quantity {
		sku.Level -= ev.Quantity
		return
	}

	if sku.LocationType == entities.Perpetual {
		e.drawPerpetualDirect(sku, ev.Quantity)
		return
	}

	shortfall := ev.Quantity - sku.Level
	sku.Level = 0
	sku.Stats.StockoutEvents++
	sku.Stats.StockoutUnits += shortfall
	e.system.StockoutEvents++
	e.system.StockoutUnits += shortfall

	if sku.Connected() {
		e.emergencies = append(e.emergencies, emergencyRequest{
			parKey:  ev.Key,
			perpKey: *sku.PerpetualKey,
			need:    shortfall,
			seq:     e.nextReqSeq,
		})
		e.nextReqSeq++
		return
	}

	// No reserve stocks this item: the shortfall cannot be recovered.
	sku.Stats.HospitalStockoutUnits += shortfall
	e.system.HospitalStockoutUnits += shortfall
	e.transfers = append(e.transfers, TransferRecord{
		Week:          ev.Week,
		SKUID:         ev.Key.SKUID,
		To:            ev.Key,
		Requested:     shortfall,
		Unmet:         shortfall,
		HospitalLevel: true,
	})
}

// drawPerpetualDirect applies demand placed directly on the reserve, which
// may overdraw it depending on policy.
func (e *Engine) drawPerpetualDirect(sku *entities.SKU, qty entities.Quantity) {
	shortfall := qty - sku.Level
	switch e.policy {
	case Overdraw:
		sku.Level -= qty
	case ZeroFloor:
		sku.Level = 0
		sku.Stats.HospitalStockoutUnits += shortfall
		e.system.HospitalStockoutUnits += shortfall
	}
	sku.Stats.StockoutEvents++
	sku.Stats.StockoutUnits += shortfall
	e.system.StockoutEvents++
	e.system.StockoutUnits += shortfall
}

// handleDelivery receives an order: the quantity moves from pending to on
// hand and the matching pending entry is cleared.
func (e *Engine) handleDelivery(ev entities.DeliveryEvent) {
	sku, ok := e.net.Get(ev.Key)
	if !ok {
		return
	}

	for i, p := range sku.Pending {
		if p.OrderID == ev.OrderID {
			sku.Pending = append(sku.Pending[:i], sku.Pending[i+1:]...)
			break
		}
	}
	sku.Level += ev.Quantity
	sku.Stats.DeliveredUnits += ev.Quantity
	e.system.DeliveredUnits += ev.Quantity
}
