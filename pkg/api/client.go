package api

import (
	"context"

	"github.com/jwebster45206/adventure-console/pkg/game"
)

// Client is the remote game API. Each method is one logical call.
// Narration-returning calls yield the server's human-readable text.
type Client interface {
	// LookRoom returns the character's current room.
	LookRoom(ctx context.Context) (*game.Room, error)
	// Move walks through an exit of the current room.
	Move(ctx context.Context, direction string) (string, error)
	// LookDirection describes what lies through an exit.
	LookDirection(ctx context.Context, direction string) (string, error)

	// Inventory lists what the character is carrying.
	Inventory(ctx context.Context) ([]game.InventoryItem, error)
	// Origin kills the character and returns them to their origin room.
	Origin(ctx context.Context) (string, error)

	Inspect(ctx context.Context, slug string) (string, error)
	Get(ctx context.Context, slug string) (string, error)
	UseOnSelf(ctx context.Context, slug string) (string, error)
	UseOnOther(ctx context.Context, slug, otherSlug string) (string, error)

	// WriteNote leaves a note in the current room. The narration may be empty.
	WriteNote(ctx context.Context, text string) (string, error)
}
