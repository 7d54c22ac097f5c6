package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameLocation(t *testing.T) {
	tests := []struct {
		name string
		a    *Room
		b    *Room
		want bool
	}{
		{"both nil", nil, nil, true},
		{"nil vs empty", nil, &Room{}, true},
		{"same order", &Room{Exits: []string{"north", "east"}}, &Room{Exits: []string{"north", "east"}}, true},
		{"different order", &Room{Exits: []string{"north", "east"}}, &Room{Exits: []string{"east", "north"}}, false},
		{"nil vs exits", nil, &Room{Exits: []string{"south"}}, false},
		{"different description", &Room{Description: "Cellar", Exits: []string{"up"}}, &Room{Description: "Attic", Exits: []string{"up"}}, false},
		{"doodads ignored", &Room{Description: "Cellar", Exits: []string{"up"}}, &Room{Description: "Cellar", Exits: []string{"up"}, Doodads: []Doodad{{Slug: "torch"}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SameLocation(tt.a, tt.b))
		})
	}
}

func TestRoom_Clone(t *testing.T) {
	r := &Room{
		Description: "A damp cellar.",
		Exits:       []string{"up"},
		Doodads:     []Doodad{{Slug: "torch", Name: "Torch"}},
	}
	c := r.Clone()
	c.Exits[0] = "down"
	c.Doodads[0].Name = "Stick"

	assert.Equal(t, "up", r.Exits[0], "clone should not share exits")
	assert.Equal(t, "Torch", r.Doodads[0].Name, "clone should not share doodads")
	assert.Nil(t, (*Room)(nil).Clone())
}

func TestFindItem(t *testing.T) {
	items := []InventoryItem{{Slug: "torch", Usable: true}, {Slug: "rock"}}

	item, ok := FindItem(items, "torch")
	assert.True(t, ok)
	assert.True(t, item.Usable)

	_, ok = FindItem(items, "sword")
	assert.False(t, ok)
}
