// Package catalog defines the static room catalog: the named common areas of
// the tower, their grid sizes, capacities, access restrictions, and furniture.
// The catalog is read once at startup to seed the room registry.
package catalog

import (
	"fmt"
	"strings"
)

// KindCommon is the room kind for shared common areas. It is the only kind
// currently defined; private rooms would introduce further kinds.
const KindCommon = "common"

// Size is a room grid size in tiles.
type Size struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Furniture is an axis-aligned rectangle of tiles occupied by a furniture
// item. Furniture is static: it is loaded with the room and never mutated.
type Furniture struct {
	ID       string `json:"id" yaml:"id"`
	X        int    `json:"x" yaml:"x"`
	Y        int    `json:"y" yaml:"y"`
	Width    int    `json:"width" yaml:"width"`
	Height   int    `json:"height" yaml:"height"`
	Sittable bool   `json:"sittable" yaml:"sittable"`
}

// Contains reports whether the tile (x, y) lies inside the furniture rectangle.
func (f Furniture) Contains(x, y int) bool {
	return x >= f.X && x < f.X+f.Width && y >= f.Y && y < f.Y+f.Height
}

// Entry is one room definition in the catalog.
type Entry struct {
	// ID uniquely identifies the room (e.g. "lobby").
	ID string
	// Name is the display name shown to clients.
	Name string
	// Floor is the cosmetic floor number of the room.
	Floor int
	// Kind is the room kind; currently always KindCommon.
	Kind string
	// Size is the room grid size.
	Size Size
	// MaxOccupants is the maximum number of concurrent members.
	MaxOccupants int
	// AgentOnly restricts the room to sessions with the agent flag set.
	AgentOnly bool
	// Furniture is the static furniture layout.
	Furniture []Furniture
}

// BuiltIn returns the production common areas of the tower.
//
// Postcondition: The returned entries pass Validate.
func BuiltIn() []Entry {
	return []Entry{
		{
			ID: "lobby", Name: "Lobby", Floor: 1, Kind: KindCommon,
			Size: Size{W: 64, H: 64}, MaxOccupants: 100,
			Furniture: []Furniture{
				{ID: "lobby-couch-west", X: 20, Y: 18, Width: 4, Height: 2, Sittable: true},
				{ID: "lobby-couch-east", X: 40, Y: 18, Width: 4, Height: 2, Sittable: true},
				{ID: "lobby-fountain", X: 30, Y: 44, Width: 5, Height: 5},
			},
		},
		{
			ID: "club", Name: "Club", Floor: 25, Kind: KindCommon,
			Size: Size{W: 48, H: 48}, MaxOccupants: 50,
			Furniture: []Furniture{
				{ID: "club-sofa", X: 8, Y: 8, Width: 5, Height: 2, Sittable: true},
				{ID: "club-dj-booth", X: 22, Y: 4, Width: 6, Height: 3},
			},
		},
		{
			ID: "bar", Name: "Bar", Floor: 50, Kind: KindCommon,
			Size: Size{W: 40, H: 40}, MaxOccupants: 40,
			Furniture: []Furniture{
				{ID: "bar-counter", X: 10, Y: 6, Width: 16, Height: 2},
				{ID: "bar-stool-1", X: 12, Y: 9, Width: 1, Height: 1, Sittable: true},
				{ID: "bar-stool-2", X: 16, Y: 9, Width: 1, Height: 1, Sittable: true},
				{ID: "bar-stool-3", X: 20, Y: 9, Width: 1, Height: 1, Sittable: true},
			},
		},
		{
			ID: "gameroom", Name: "Game Room", Floor: 75, Kind: KindCommon,
			Size: Size{W: 32, H: 32}, MaxOccupants: 30,
			Furniture: []Furniture{
				{ID: "gameroom-bench", X: 4, Y: 26, Width: 6, Height: 2, Sittable: true},
				{ID: "gameroom-arcade", X: 24, Y: 4, Width: 4, Height: 2},
			},
		},
		{
			ID: "pool", Name: "Rooftop Pool", Floor: 100, Kind: KindCommon,
			Size: Size{W: 64, H: 64}, MaxOccupants: 60,
			Furniture: []Furniture{
				{ID: "pool-lounger-1", X: 6, Y: 10, Width: 2, Height: 4, Sittable: true},
				{ID: "pool-lounger-2", X: 10, Y: 10, Width: 2, Height: 4, Sittable: true},
				{ID: "pool-water", X: 20, Y: 36, Width: 24, Height: 12},
			},
		},
		{
			ID: "agent-lounge", Name: "Agent Lounge", Floor: 50, Kind: KindCommon,
			Size: Size{W: 40, H: 40}, MaxOccupants: 50, AgentOnly: true,
			Furniture: []Furniture{
				{ID: "lounge-pod-1", X: 6, Y: 6, Width: 2, Height: 2, Sittable: true},
				{ID: "lounge-pod-2", X: 32, Y: 6, Width: 2, Height: 2, Sittable: true},
			},
		},
	}
}

// Validate checks catalog invariants: unique room ids, positive grid sizes
// and capacities, and furniture rectangles with positive extent lying fully
// inside the room grid.
//
// Postcondition: Returns nil if the catalog is consistent, or an error
// describing all violations.
func Validate(entries []Entry) error {
	var errs []string

	if len(entries) == 0 {
		errs = append(errs, "catalog must define at least one room")
	}

	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.ID == "" {
			errs = append(errs, "room id must not be empty")
			continue
		}
		if seen[e.ID] {
			errs = append(errs, fmt.Sprintf("duplicate room id %q", e.ID))
		}
		seen[e.ID] = true

		if e.Name == "" {
			errs = append(errs, fmt.Sprintf("room %s: name must not be empty", e.ID))
		}
		if e.Size.W < 1 || e.Size.H < 1 {
			errs = append(errs, fmt.Sprintf("room %s: grid size must be positive, got %dx%d", e.ID, e.Size.W, e.Size.H))
		}
		if e.MaxOccupants < 1 {
			errs = append(errs, fmt.Sprintf("room %s: max_occupants must be >= 1, got %d", e.ID, e.MaxOccupants))
		}

		furnSeen := make(map[string]bool, len(e.Furniture))
		for _, f := range e.Furniture {
			if f.ID == "" {
				errs = append(errs, fmt.Sprintf("room %s: furniture id must not be empty", e.ID))
				continue
			}
			if furnSeen[f.ID] {
				errs = append(errs, fmt.Sprintf("room %s: duplicate furniture id %q", e.ID, f.ID))
			}
			furnSeen[f.ID] = true

			if f.Width < 1 || f.Height < 1 {
				errs = append(errs, fmt.Sprintf("room %s: furniture %s must have positive extent", e.ID, f.ID))
			}
			if f.X < 0 || f.Y < 0 || f.X+f.Width > e.Size.W || f.Y+f.Height > e.Size.H {
				errs = append(errs, fmt.Sprintf("room %s: furniture %s lies outside the %dx%d grid", e.ID, f.ID, e.Size.W, e.Size.H))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("catalog validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
