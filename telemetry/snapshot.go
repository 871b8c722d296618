package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/rigid/physics"
	"github.com/pthm-cable/rigid/vec"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// ErrSnapshotMismatch is returned when a snapshot does not fit the world it
// is applied to.
var ErrSnapshotMismatch = errors.New("snapshot does not match world")

// Snapshot holds the dynamic state of a scene. Rebuilding the scene from
// Scene and Seed and applying the snapshot reproduces the world.
type Snapshot struct {
	Version int    `json:"version"`
	Scene   string `json:"scene"`
	Seed    int64  `json:"seed"`

	Tick int32 `json:"tick"`

	Bodies []BodyState `json:"bodies"`

	Bookmark *Bookmark `json:"bookmark,omitempty"`
}

// BodyState holds one body's state.
type BodyState struct {
	ID     uint32 `json:"id"`
	Static bool   `json:"static"`

	X               float64 `json:"x"`
	Y               float64 `json:"y"`
	Angle           float64 `json:"angle"`
	VelX            float64 `json:"vel_x"`
	VelY            float64 `json:"vel_y"`
	AngularVelocity float64 `json:"angular_velocity"`

	Mass   float64 `json:"mass"`
	Shapes int     `json:"shapes"`
}

// CaptureSnapshot records every body of w in insertion order.
func CaptureSnapshot(w *physics.World, scene string, seed int64, tick int32) *Snapshot {
	s := &Snapshot{
		Version: SnapshotVersion,
		Scene:   scene,
		Seed:    seed,
		Tick:    tick,
		Bodies:  make([]BodyState, 0, len(w.Bodies())),
	}
	for _, b := range w.Bodies() {
		p, v := b.Position(), b.Velocity()
		s.Bodies = append(s.Bodies, BodyState{
			ID:              b.ID(),
			Static:          b.IsStatic(),
			X:               p.X,
			Y:               p.Y,
			Angle:           b.Angle(),
			VelX:            v.X,
			VelY:            v.Y,
			AngularVelocity: b.AngularVelocity(),
			Mass:            b.Mass(),
			Shapes:          len(b.Shapes()),
		})
	}
	return s
}

// Apply restores body state onto a world rebuilt from the same scene.
// Bodies are matched by insertion order; ids differ between runs.
func (s *Snapshot) Apply(w *physics.World) error {
	bodies := w.Bodies()
	if len(bodies) != len(s.Bodies) {
		return fmt.Errorf("%w: %d bodies, snapshot has %d", ErrSnapshotMismatch, len(bodies), len(s.Bodies))
	}
	for i, st := range s.Bodies {
		if len(bodies[i].Shapes()) != st.Shapes {
			return fmt.Errorf("%w: body %d has %d shapes, snapshot has %d", ErrSnapshotMismatch, i, len(bodies[i].Shapes()), st.Shapes)
		}
	}
	for i, st := range s.Bodies {
		b := bodies[i]
		if b.IsStatic() != st.Static {
			b.SetStatic(st.Static)
		}
		b.SetPosition(vec.New(st.X, st.Y))
		b.SetAngle(st.Angle)
		b.SetVelocity(vec.New(st.VelX, st.VelY))
		b.SetAngularVelocity(st.AngularVelocity)
	}
	return nil
}

// SaveSnapshot writes a snapshot to disk.
// Returns the filepath where it was saved.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json")

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot from disk.
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}
