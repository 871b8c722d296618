package scene

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/vec"
)

// Layout constants in world units. The floor's top surface is y = 0.
const (
	FloorWidth     = 1200.0
	FloorThickness = 40.0
	BoxSize        = 30.0
)

func staticOpts(p Params) physics.BodyOptions {
	opts := p.Body
	opts.Static = true
	return opts
}

func add(w *physics.World, vertices []vec.Vector, pos vec.Vector, opts physics.BodyOptions) (*physics.RigidBody, error) {
	b, err := physics.NewBody(vertices, pos, opts)
	if err != nil {
		return nil, err
	}
	if err := w.Add(b); err != nil {
		return nil, err
	}
	return b, nil
}

func addFloor(w *physics.World, p Params) error {
	_, err := add(w, physics.Rectangle(FloorWidth, FloorThickness), vec.New(0, -FloorThickness/2), staticOpts(p))
	return err
}

func buildGround(w *physics.World, p Params, _ *rand.Rand) error {
	return addFloor(w, p)
}

func buildStack(w *physics.World, p Params, _ *rand.Rand) error {
	if err := addFloor(w, p); err != nil {
		return err
	}
	for i := range p.Count {
		y := BoxSize/2 + float64(i)*BoxSize
		if _, err := add(w, physics.Rectangle(BoxSize, BoxSize), vec.New(0, y), p.Body); err != nil {
			return err
		}
	}
	return nil
}

// buildPyramid stacks Count rows; the bottom row has Count boxes.
func buildPyramid(w *physics.World, p Params, _ *rand.Rand) error {
	if err := addFloor(w, p); err != nil {
		return err
	}
	const gap = 2.0
	for row := range p.Count {
		n := p.Count - row
		y := BoxSize/2 + float64(row)*BoxSize
		for i := range n {
			x := (float64(i) - float64(n-1)/2) * (BoxSize + gap)
			if _, err := add(w, physics.Rectangle(BoxSize, BoxSize), vec.New(x, y), p.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

// buildRain drops Count random polygons into a walled bin.
func buildRain(w *physics.World, p Params, rng *rand.Rand) error {
	if err := addFloor(w, p); err != nil {
		return err
	}
	const halfWidth, wallHeight = 400.0, 600.0
	for _, x := range []float64{-halfWidth, halfWidth} {
		if _, err := add(w, physics.Rectangle(20, wallHeight), vec.New(x, wallHeight/2), staticOpts(p)); err != nil {
			return err
		}
	}

	for range p.Count {
		var verts []vec.Vector
		if rng.Float64() < 0.3 {
			verts = physics.Rectangle(10+rng.Float64()*30, 10+rng.Float64()*30)
		} else {
			verts = physics.RegularPolygon(3+rng.Intn(6), 8+rng.Float64()*12)
		}
		pos := vec.New((rng.Float64()*2-1)*(halfWidth-40), 100+rng.Float64()*800)
		b, err := add(w, verts, pos, p.Body)
		if err != nil {
			return err
		}
		b.SetAngle(rng.Float64() * 2 * math.Pi)
	}
	return nil
}

// lShape returns an L-shaped outline of arm length s and thickness s/3.
func lShape(s float64) []vec.Vector {
	t := s / 3
	return []vec.Vector{
		vec.New(0, 0), vec.New(s, 0), vec.New(s, t),
		vec.New(t, t), vec.New(t, s), vec.New(0, s),
	}
}

// uShape returns a U-shaped outline of width s.
func uShape(s float64) []vec.Vector {
	t := s / 4
	return []vec.Vector{
		vec.New(0, 0), vec.New(s, 0), vec.New(s, s),
		vec.New(s-t, s), vec.New(s-t, t), vec.New(t, t),
		vec.New(t, s), vec.New(0, s),
	}
}

// star returns a five-pointed star.
func star(r float64) []vec.Vector {
	out := make([]vec.Vector, 10)
	for i := range out {
		radius := r
		if i%2 == 1 {
			radius = r * 0.45
		}
		a := math.Pi/2 + float64(i)*math.Pi/5
		out[i] = vec.New(radius*math.Cos(a), radius*math.Sin(a))
	}
	return out
}

func buildConcave(w *physics.World, p Params, rng *rand.Rand) error {
	if err := addFloor(w, p); err != nil {
		return err
	}
	shapes := []func(float64) []vec.Vector{lShape, uShape, star}
	for i := range p.Count {
		verts := shapes[i%len(shapes)](30 + rng.Float64()*20)
		pos := vec.New((rng.Float64()*2-1)*300, 80+float64(i)*70)
		b, err := add(w, verts, pos, p.Body)
		if err != nil {
			return err
		}
		b.SetAngle(rng.Float64() * 2 * math.Pi)
	}
	return nil
}

// buildPendulum hangs Count links in a horizontal chain from a world anchor
// so the chain swings down under gravity.
func buildPendulum(w *physics.World, p Params, _ *rand.Rand) error {
	if err := addFloor(w, p); err != nil {
		return err
	}
	const linkW, linkH, spacing, height = 24.0, 8.0, 30.0, 400.0

	anchor := vec.New(0, height)
	var prev *physics.RigidBody
	prevEnd := anchor
	for i := range p.Count {
		center := vec.New(spacing/2+float64(i)*spacing, height)
		link, err := add(w, physics.Rectangle(linkW, linkH), center, p.Body)
		if err != nil {
			return err
		}
		start := center.Sub(vec.New(linkW/2, 0))
		c := physics.NewDistanceConstraint(prev, prevEnd, link, start)
		if err := w.AddConstraint(c); err != nil {
			return err
		}
		prev = link
		prevEnd = center.Add(vec.New(linkW/2, 0))
	}
	return nil
}

// buildSensor drops boxes through a static sensor band onto the floor.
func buildSensor(w *physics.World, p Params, rng *rand.Rand) error {
	if err := addFloor(w, p); err != nil {
		return err
	}
	opts := staticOpts(p)
	opts.Sensor = true
	if _, err := add(w, physics.Rectangle(400, 80), vec.New(0, 200), opts); err != nil {
		return err
	}
	for i := range p.Count {
		pos := vec.New((rng.Float64()*2-1)*150, 320+float64(i)*40)
		if _, err := add(w, physics.Rectangle(BoxSize, BoxSize), pos, p.Body); err != nil {
			return err
		}
	}
	return nil
}
