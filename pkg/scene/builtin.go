package scene

import (
	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/material"
)

// Setup is a built scene together with the pencil beam it is meant to be lit by
type Setup struct {
	Scene         *Scene
	BeamOrigin    core.Vec3
	BeamDirection core.Vec3
}

// NewSphereScene creates a smoothed tissue sphere in air, lit from above
func NewSphereScene() *Setup {
	b := NewBuilder(material.NewVacuum(1.0).WithLabel("air"))
	tissue := b.AddMaterial(material.New(10, 0.1, 0.9, 1.37).WithLabel("tissue"))
	b.AddSolid("sphere", NewIcoSphereMesh(core.NewVec3(0, 0, 0), 1, 3), tissue, true)

	return &Setup{
		Scene:         mustBuild(b),
		BeamOrigin:    core.NewVec3(0, 0, 2),
		BeamDirection: core.NewVec3(0, 0, -1),
	}
}

// NewLayerStackScene creates three stacked skin-like slabs sharing their
// interfaces, lit from above
func NewLayerStackScene() *Setup {
	b := NewBuilder(material.NewVacuum(1.0).WithLabel("air"))
	epidermisMat := b.AddMaterial(material.New(40, 1.0, 0.8, 1.4).WithLabel("epidermis"))
	dermisMat := b.AddMaterial(material.New(20, 0.3, 0.9, 1.4).WithLabel("dermis"))
	subcutisMat := b.AddMaterial(material.New(12, 0.05, 0.75, 1.44).WithLabel("subcutis"))

	epidermis := b.AddSolid("epidermis", NewCuboidMesh(core.NewVec3(0, 0, -0.05), core.NewVec3(2, 2, 0.1)), epidermisMat, false)
	dermis := b.AddSolid("dermis", NewCuboidMesh(core.NewVec3(0, 0, -0.2), core.NewVec3(2, 2, 0.2)), dermisMat, false)
	subcutis := b.AddSolid("subcutis", NewCuboidMesh(core.NewVec3(0, 0, -0.55), core.NewVec3(2, 2, 0.5)), subcutisMat, false)

	mustSucceed(b.Connect(epidermis, CuboidBack, dermis, CuboidFront))
	mustSucceed(b.Connect(dermis, CuboidBack, subcutis, CuboidFront))

	return &Setup{
		Scene:         mustBuild(b),
		BeamOrigin:    core.NewVec3(0, 0, 1),
		BeamDirection: core.NewVec3(0, 0, -1),
	}
}

// NewLensScene creates a clear glass ball embedded in a weakly scattering
// water tank. The beam starts inside the water, off axis.
func NewLensScene() *Setup {
	b := NewBuilder(material.NewVacuum(1.0).WithLabel("air"))
	water := b.AddMaterial(material.New(0.1, 0.01, 0.0, 1.33).WithLabel("water"))
	glass := b.AddMaterial(material.NewVacuum(1.5).WithLabel("glass"))

	tank := b.AddSolid("tank", NewCuboidMesh(core.NewVec3(0, 0, 0), core.NewVec3(4, 4, 4)), water, false)
	lens := b.AddSolid("lens", NewIcoSphereMesh(core.NewVec3(0, 0, 0), 1, 3), glass, true)
	mustSucceed(b.PlaceInside(lens, tank))

	return &Setup{
		Scene:         mustBuild(b),
		BeamOrigin:    core.NewVec3(0, 0.3, 1.9),
		BeamDirection: core.NewVec3(0, 0, -1),
	}
}

// Built-in scenes are fixed at compile time, so a failure is a programming error
func mustBuild(b *Builder) *Scene {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func mustSucceed(err error) {
	if err != nil {
		panic(err)
	}
}
