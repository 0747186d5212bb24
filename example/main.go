package main

import (
	"fmt"

	"github.com/arash-simuland/cedars-sub000/pkg/domain/entities"
	"github.com/arash-simuland/cedars-sub000/pkg/sim"
)

func main() {
	// A minimal two-tier network: the central perpetual reserve feeding
	// one emergency department PAR.
	locations := []*entities.LocationRecord{
		{LocationID: "PERPETUAL", Type: entities.Perpetual},
		{LocationID: "ED", Type: entities.PAR, Capacity: 500},
	}

	skus := []*entities.SKUMasterRecord{
		{
			SKUID:        "GLOVES_M",
			LocationID:   "PERPETUAL",
			Description:  "Exam Gloves Medium",
			TargetLevel:  200,
			LeadTimeDays: 2,
		},
		{
			SKUID:        "GLOVES_M",
			LocationID:   "ED",
			Description:  "Exam Gloves Medium",
			TargetLevel:  60,
			LeadTimeDays: 10,
			DemandRate:   24,
		},
	}

	network, err := sim.BuildNetwork(locations, skus)
	if err != nil {
		fmt.Printf("network construction failed: %v\n", err)
		return
	}

	manager, err := sim.NewManager(network, sim.Options{
		Horizon: 26,
		Policy:  sim.Overdraw,
		Demand:  sim.DemandConfig{Mode: sim.DemandNormal, Seed: 42, CV: 0.3},
	})
	if err != nil {
		fmt.Printf("run setup failed: %v\n", err)
		return
	}

	fmt.Println("Simulating 26 weeks of hospital supply consumption...")
	result := manager.Run()

	fmt.Printf("\nWeeks simulated: %d\n", result.WeeksRun)
	fmt.Printf("Demand: %.1f units\n", float64(result.System.DemandUnits))
	fmt.Printf("Service level: %.2f%%\n", result.System.ServiceLevel()*100)
	fmt.Printf("Stockout events: %d\n", result.System.StockoutEvents)
	fmt.Printf("Emergency transfers: %d (%.1f units)\n",
		result.System.EmergencyTransfers, float64(result.System.EmergencyUnits))

	edKey := entities.InstanceKey{LocationID: "ED", SKUID: "GLOVES_M"}
	fmt.Println("\nED weekly levels:")
	for week, level := range result.Series[edKey] {
		fmt.Printf("  week %2d: %6.1f\n", week, float64(level))
	}

	perp, _ := network.Location("PERPETUAL")
	fmt.Printf("\nPerpetual reserve ending level: %.1f\n", float64(perp.TotalLevel()))
}
