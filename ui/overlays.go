package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OverlayID uniquely identifies an overlay.
type OverlayID string

// Standard overlay IDs.
const (
	OverlayWireframe   OverlayID = "wireframe"
	OverlayParts       OverlayID = "parts"
	OverlayBounds      OverlayID = "bounds"
	OverlayCentroids   OverlayID = "centroids"
	OverlayContacts    OverlayID = "contacts"
	OverlayNormals     OverlayID = "normals"
	OverlayVelocities  OverlayID = "velocities"
	OverlayConstraints OverlayID = "constraints"
	OverlayGrid        OverlayID = "grid"
	OverlayStaticGrid  OverlayID = "static_grid"
)

// OverlayDescriptor defines an overlay that can be toggled.
type OverlayDescriptor struct {
	ID          OverlayID   // Unique identifier
	Name        string      // Display name
	Description string      // What this overlay shows
	Key         int32       // Keyboard key to toggle (0 = no key)
	KeyLabel    string      // Key label for display (e.g., "S", "V")
	Category    string      // Grouping (e.g., "shapes", "contacts", "broadphase")
	Exclusive   []OverlayID // Other overlays to disable when this is enabled
	Default     bool        // Enabled when the registry is created
}

// OverlayRegistry manages overlay state and metadata.
type OverlayRegistry struct {
	descriptors []OverlayDescriptor
	byID        map[OverlayID]OverlayDescriptor
	enabled     map[OverlayID]bool
}

// NewOverlayRegistry creates a registry with default overlays.
func NewOverlayRegistry() *OverlayRegistry {
	reg := &OverlayRegistry{
		byID:    make(map[OverlayID]OverlayDescriptor),
		enabled: make(map[OverlayID]bool),
	}
	reg.registerDefaults()
	return reg
}

func (r *OverlayRegistry) registerDefaults() {
	r.Register(OverlayDescriptor{
		ID:          OverlayWireframe,
		Name:        "Wireframe",
		Description: "Draw body outlines without fill",
		Key:         rl.KeyW,
		KeyLabel:    "W",
		Category:    "shapes",
		Exclusive:   []OverlayID{OverlayParts},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayParts,
		Name:        "Convex Parts",
		Description: "Color each convex part of a decomposed body",
		Key:         rl.KeyP,
		KeyLabel:    "P",
		Category:    "shapes",
		Exclusive:   []OverlayID{OverlayWireframe},
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayCentroids,
		Name:        "Centroids",
		Description: "Show centers of mass and orientation",
		Key:         rl.KeyO,
		KeyLabel:    "O",
		Category:    "shapes",
		Default:     true,
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayContacts,
		Name:        "Contacts",
		Description: "Show contact points of active pairs",
		Key:         rl.KeyC,
		KeyLabel:    "C",
		Category:    "contacts",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayNormals,
		Name:        "Normals",
		Description: "Show pair normals scaled by depth",
		Key:         rl.KeyN,
		KeyLabel:    "N",
		Category:    "contacts",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayConstraints,
		Name:        "Constraints",
		Description: "Show distance constraints",
		Key:         rl.KeyJ,
		KeyLabel:    "J",
		Category:    "contacts",
		Default:     true,
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayVelocities,
		Name:        "Velocities",
		Description: "Show linear velocity vectors",
		Key:         rl.KeyV,
		KeyLabel:    "V",
		Category:    "contacts",
	})

	r.Register(OverlayDescriptor{
		ID:          OverlayBounds,
		Name:        "Bounds",
		Description: "Show shape bounding boxes",
		Key:         rl.KeyB,
		KeyLabel:    "B",
		Category:    "broadphase",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayGrid,
		Name:        "Dynamic Grid",
		Description: "Show occupied dynamic broadphase cells",
		Key:         rl.KeyG,
		KeyLabel:    "G",
		Category:    "broadphase",
	})
	r.Register(OverlayDescriptor{
		ID:          OverlayStaticGrid,
		Name:        "Static Grid",
		Description: "Show occupied static broadphase cells",
		Key:         rl.KeyH,
		KeyLabel:    "H",
		Category:    "broadphase",
	})
}

// Register adds an overlay to the registry.
func (r *OverlayRegistry) Register(desc OverlayDescriptor) {
	r.descriptors = append(r.descriptors, desc)
	r.byID[desc.ID] = desc
	r.enabled[desc.ID] = desc.Default
}

// Toggle switches an overlay on/off and handles exclusivity.
func (r *OverlayRegistry) Toggle(id OverlayID) bool {
	if _, ok := r.byID[id]; !ok {
		return false
	}
	state := !r.enabled[id]
	r.SetEnabled(id, state)
	return state
}

// SetEnabled explicitly sets an overlay's state.
func (r *OverlayRegistry) SetEnabled(id OverlayID, enabled bool) {
	desc, ok := r.byID[id]
	if !ok {
		return
	}

	r.enabled[id] = enabled
	if enabled {
		for _, excl := range desc.Exclusive {
			r.enabled[excl] = false
		}
	}
}

// IsEnabled returns whether an overlay is active.
func (r *OverlayRegistry) IsEnabled(id OverlayID) bool {
	return r.enabled[id]
}

// All returns all registered overlays in registration order.
func (r *OverlayRegistry) All() []OverlayDescriptor {
	return r.descriptors
}

// ByCategory returns overlays filtered by category.
func (r *OverlayRegistry) ByCategory(category string) []OverlayDescriptor {
	var result []OverlayDescriptor
	for _, desc := range r.descriptors {
		if desc.Category == category {
			result = append(result, desc)
		}
	}
	return result
}

// Categories returns all unique categories in order.
func (r *OverlayRegistry) Categories() []string {
	seen := make(map[string]bool)
	var cats []string
	for _, desc := range r.descriptors {
		if !seen[desc.Category] {
			seen[desc.Category] = true
			cats = append(cats, desc.Category)
		}
	}
	return cats
}

// HandleKeyPress checks if a key corresponds to an overlay toggle.
// Returns the overlay ID and new state if a toggle occurred.
func (r *OverlayRegistry) HandleKeyPress(key int32) (OverlayID, bool, bool) {
	for _, desc := range r.descriptors {
		if desc.Key != 0 && desc.Key == key {
			return desc.ID, r.Toggle(desc.ID), true
		}
	}
	return "", false, false
}

// EnabledOverlays returns the currently enabled overlay IDs.
func (r *OverlayRegistry) EnabledOverlays() []OverlayID {
	var result []OverlayID
	for _, desc := range r.descriptors {
		if r.enabled[desc.ID] {
			result = append(result, desc.ID)
		}
	}
	return result
}
