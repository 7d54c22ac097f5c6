package game

// InventoryItem is an item the character is carrying.
type InventoryItem struct {
	Slug        string `json:"slug"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Usable      bool   `json:"usable,omitempty"` // Can be used on self or on another target
}

// FindItem returns the inventory item with the given slug.
func FindItem(items []InventoryItem, slug string) (InventoryItem, bool) {
	for _, item := range items {
		if item.Slug == slug {
			return item, true
		}
	}
	return InventoryItem{}, false
}

// ExitDescriptions maps a direction name to what the player sees looking that way.
type ExitDescriptions map[string]string
