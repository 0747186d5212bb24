package sim

import (
	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// handleReplenishment runs the order-up-to-level check for one SKU instance:
// gap = max(0, target - (on hand + en route)). A positive gap becomes an
// order of exactly that size, with delivery scheduled after the lead time
// rounded up to whole weeks. There is no backorder accumulation; every check
// reflects only the live state at that instant.
func (e *Engine) handleReplenishment(ev entities.ReplenishmentEvent) {
	sku, ok := e.net.Get(ev.Key)
	if !ok {
		return
	}

	gap := sku.InventoryGap()
	if gap <= 0 {
		return
	}

	e.nextOrderID++
	arrival := ev.Week + sku.LeadTimeWeeksCeil()

	sku.Pending = append(sku.Pending, entities.PendingDelivery{
		OrderID:     e.nextOrderID,
		Quantity:    gap,
		ArrivalWeek: arrival,
		Source:      entities.SourceSupplier,
	})
	sku.Stats.OrdersPlaced++
	e.system.OrdersPlaced++

	e.Schedule(entities.DeliveryEvent{
		Key:      ev.Key,
		Quantity: gap,
		Week:     arrival,
		Source:   entities.SourceSupplier,
		OrderID:  e.nextOrderID,
	})
}
