package wireframe_test

import (
	"fmt"

	"github.com/matzehuels/domespec/pkg/geometry"
	"github.com/matzehuels/domespec/pkg/render/wireframe"
)

func ExampleBuild() {
	layout := geometry.Layout{Dome: geometry.Dome{
		DiameterMM: 3000,
		FOVH:       180,
		FOVNorth:   67.5,
		FOVSouth:   33.75,
		ModulesH:   32,
		ModulesV:   12,
	}}
	scene, err := wireframe.Build(layout, wireframe.Options{})
	if err != nil {
		panic(err)
	}
	frame := scene.Project(wireframe.ViewB, 800, 600)
	fmt.Println(len(frame.Faces), "faces")
	fmt.Println(len(frame.Lines), "lines")
	// Output:
	// 384 faces
	// 47 lines
}
