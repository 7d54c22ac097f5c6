package game

import "slices"

// Doodad is an interactable object in a room: an item, a note, or a corpse.
type Doodad struct {
	Slug        string `json:"slug"`                  // Stable identifier used as the API key
	Name        string `json:"name"`                  // Display name
	Description string `json:"description,omitempty"` // Short blurb shown in lists
}

// Room is the server's view of the player's current location.
// It is always replaced wholesale, never merged.
type Room struct {
	Description string   `json:"description"`
	Exits       []string `json:"exits"`             // Ordered, unique direction names
	Doodads     []Doodad `json:"doodads,omitempty"` // Things that can be inspected or picked up
	Notes       []Doodad `json:"notes,omitempty"`   // Notes left by other players
	Corpses     []Doodad `json:"corpses,omitempty"` // Remains of players who death-warped here
}

// SameLocation reports whether two rooms describe the same place: same
// description and same exit sequence. Doodads, notes and corpses may differ.
// A nil room has no description and no exits.
func SameLocation(a, b *Room) bool {
	return a.describe() == b.describe() && slices.Equal(a.ExitList(), b.ExitList())
}

func (r *Room) describe() string {
	if r == nil {
		return ""
	}
	return r.Description
}

// ExitList returns the room's exits, tolerating a nil room.
func (r *Room) ExitList() []string {
	if r == nil {
		return nil
	}
	return r.Exits
}

// Clone returns a deep copy so snapshots can't alias session state.
func (r *Room) Clone() *Room {
	if r == nil {
		return nil
	}
	return &Room{
		Description: r.Description,
		Exits:       slices.Clone(r.Exits),
		Doodads:     slices.Clone(r.Doodads),
		Notes:       slices.Clone(r.Notes),
		Corpses:     slices.Clone(r.Corpses),
	}
}
