package sim

import (
	"math/rand"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
)

// DemandMode selects how weekly demand quantities are generated.
type DemandMode int

const (
	// DemandConstant draws exactly the demand rate every week.
	DemandConstant DemandMode = iota
	// DemandNormal draws from a normal distribution with mean equal to the
	// demand rate, truncated at zero. Deterministic for a fixed seed.
	DemandNormal
)

// String method for DemandMode enum
func (m DemandMode) String() string {
	switch m {
	case DemandConstant:
		return "constant"
	case DemandNormal:
		return "normal"
	default:
		return "unknown"
	}
}

// DemandConfig configures demand generation for a run.
type DemandConfig struct {
	Mode DemandMode
	// Seed drives the random source for DemandNormal. Two runs with the
	// same seed produce identical demand streams.
	Seed int64
	// CV is the coefficient of variation for DemandNormal: sigma = CV * rate.
	CV float64
}

// demandGenerator seeds weekly demand events for every instance with a
// nonzero demand rate. Instances are visited in sorted key order week by
// week, so the draw sequence is fixed for a given network and seed.
type demandGenerator struct {
	cfg DemandConfig
	rng *rand.Rand
}

func newDemandGenerator(cfg DemandConfig) *demandGenerator {
	return &demandGenerator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// seed schedules one demand event per instance per week over the horizon.
func (g *demandGenerator) seed(engine *Engine, net *Network, horizon int) {
	for week := 0; week < horizon; week++ {
		for _, key := range net.Keys() {
			sku, _ := net.Get(key)
			if sku.DemandRate <= 0 {
				continue
			}
			engine.Schedule(entities.DemandEvent{
				Key:      key,
				Quantity: g.quantity(sku.DemandRate),
				Week:     week,
			})
		}
	}
}

func (g *demandGenerator) quantity(rate entities.Quantity) entities.Quantity {
	switch g.cfg.Mode {
	case DemandNormal:
		q := float64(rate) + g.rng.NormFloat64()*g.cfg.CV*float64(rate)
		if q < 0 {
			q = 0
		}
		return entities.Quantity(q)
	default:
		return rate
	}
}
