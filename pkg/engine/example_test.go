package engine_test

import (
	"fmt"

	"github.com/matzehuels/domespec/pkg/engine"
)

func ExampleCompute() {
	p := engine.DefaultParams()
	if err := engine.Validate(p); err != nil {
		fmt.Println("Error:", err)
		return
	}

	s, err := engine.Compute(p, engine.DefaultConstants())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("pitch: %.3f mm\n", s.PitchMM)
	fmt.Printf("modules: %d x %d (%d north, %d south)\n", s.ModulesH, s.ModulesV, s.ModulesNorth, s.ModulesSouth)
	fmt.Printf("module pixels: %d x %d\n", s.PixelsPerModuleH, s.PixelsPerModuleV)
	fmt.Printf("scan: 1/%d\n", s.MaxScan)
	fmt.Printf("power: %.2f kW\n", s.TotalPowerKW)
	fmt.Println("exact:", s.Exact())
	// Output:
	// pitch: 1.227 mm
	// modules: 32 x 12 (8 north, 4 south)
	// module pixels: 120 x 180
	// scan: 1/45
	// power: 3.85 kW
	// exact: true
}

func ExampleSpec_Warnings() {
	p := engine.DefaultParams()
	p.FrameRate = 50

	s, err := engine.Compute(p, engine.DefaultConstants())
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, w := range s.Warnings() {
		fmt.Println(w)
	}
	// Output:
	// frame rate 50 Hz has no receiver budget; using the 60 Hz budget (262144)
}
