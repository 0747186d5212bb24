package entities

// EventKind tags the event variants the engine dispatches on.
type EventKind int

const (
	KindDemand EventKind = iota
	KindDelivery
	KindReplenishment
)

// String method for EventKind enum
func (k EventKind) String() string {
	switch k {
	case KindDemand:
		return "Demand"
	case KindDelivery:
		return "Delivery"
	case KindReplenishment:
		return "Replenishment"
	default:
		return "Unknown"
	}
}

// EventStatus is the lifecycle of a scheduled event. The status lives on the
// queue envelope; event payloads themselves are immutable once created.
type EventStatus int

const (
	StatusScheduled EventStatus = iota
	StatusProcessing
	StatusCompleted
)

// String method for EventStatus enum
func (s EventStatus) String() string {
	switch s {
	case StatusScheduled:
		return "Scheduled"
	case StatusProcessing:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// DeliverySource distinguishes external supplier deliveries from same-week
// emergency draws out of the perpetual reserve.
type DeliverySource int

const (
	SourceSupplier DeliverySource = iota
	SourceEmergency
)

// String method for DeliverySource enum
func (s DeliverySource) String() string {
	switch s {
	case SourceSupplier:
		return "supplier"
	case SourceEmergency:
		return "emergency"
	default:
		return "unknown"
	}
}

// Event is the sealed set of occurrences the engine processes. Ordering is
// by week, ties broken by insertion order.
type Event interface {
	Kind() EventKind
	Instance() InstanceKey
	At() int
}

// DemandEvent is consumption drawn from a SKU instance in a given week.
type DemandEvent struct {
	Key      InstanceKey
	Quantity Quantity
	Week     int
}

func (e DemandEvent) Kind() EventKind       { return KindDemand }
func (e DemandEvent) Instance() InstanceKey { return e.Key }
func (e DemandEvent) At() int               { return e.Week }

// DeliveryEvent is an order arriving at a SKU instance.
type DeliveryEvent struct {
	Key      InstanceKey
	Quantity Quantity
	Week     int
	Source   DeliverySource
	OrderID  int64
}

func (e DeliveryEvent) Kind() EventKind       { return KindDelivery }
func (e DeliveryEvent) Instance() InstanceKey { return e.Key }
func (e DeliveryEvent) At() int               { return e.Week }

// ReplenishmentEvent triggers an order-up-to check for a SKU instance.
type ReplenishmentEvent struct {
	Key  InstanceKey
	Week int
}

func (e ReplenishmentEvent) Kind() EventKind       { return KindReplenishment }
func (e ReplenishmentEvent) Instance() InstanceKey { return e.Key }
func (e ReplenishmentEvent) At() int               { return e.Week }
