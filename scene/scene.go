// Package scene builds demo setups into a physics world, either from the
// built-in registry or from a YAML scene file.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/rigid/physics"
)

// ErrUnknownScene is returned by Build for names not in the registry.
var ErrUnknownScene = errors.New("unknown scene")

// Params controls a built-in scene.
type Params struct {
	Count int                 // bodies, rows or links depending on the scene
	Seed  int64               // seeds placement jitter
	Body  physics.BodyOptions // material for dynamic bodies
}

// Builder populates w.
type Builder func(w *physics.World, p Params, rng *rand.Rand) error

type entry struct {
	name        string
	description string
	build       Builder
}

var registry = []entry{
	{"ground", "A static floor and nothing else", buildGround},
	{"stack", "A single column of boxes", buildStack},
	{"pyramid", "Rows of boxes shrinking toward the top", buildPyramid},
	{"rain", "Random polygons dropped into a bin", buildRain},
	{"concave", "Concave bodies split into convex parts", buildConcave},
	{"pendulum", "A chain of links hanging from a world anchor", buildPendulum},
	{"sensor", "Boxes falling through a static sensor region", buildSensor},
}

// Names returns the built-in scene names in registry order.
func Names() []string {
	names := make([]string, len(registry))
	for i, e := range registry {
		names[i] = e.name
	}
	return names
}

// Describe returns a one-line description of a built-in scene.
func Describe(name string) string {
	for _, e := range registry {
		if e.name == name {
			return e.description
		}
	}
	return ""
}

// Next returns the scene after name in registry order, wrapping around.
// Unknown names return the first scene.
func Next(name string) string {
	for i, e := range registry {
		if e.name == name {
			return registry[(i+1)%len(registry)].name
		}
	}
	return registry[0].name
}

// Build populates w with the named scene.
func Build(w *physics.World, name string, p Params) error {
	for _, e := range registry {
		if e.name != name {
			continue
		}
		if p.Count < 1 {
			p.Count = 1
		}
		rng := rand.New(rand.NewSource(p.Seed))
		if err := e.build(w, p, rng); err != nil {
			return fmt.Errorf("scene %s: %w", name, err)
		}
		slog.Info("scene built", "scene", name, "bodies", len(w.Bodies()), "constraints", len(w.Constraints()))
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownScene, name)
}
