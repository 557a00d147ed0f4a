package order

import (
	"context"

	"github.com/MikeMC777/restaurant-pos/internal/events"
	"github.com/MikeMC777/restaurant-pos/internal/menu"
	"github.com/MikeMC777/restaurant-pos/internal/storage"
)

// MenuLookup resolves cart lines to the current menu entries.
type MenuLookup interface {
	GetMany(ctx context.Context, ids []string) (map[string]menu.Item, error)
}

// Ext groups the collaborators the order flow talks to besides its own
// tables.
type Ext struct {
	Menu     MenuLookup
	Events   events.Publisher
	Receipts storage.Archive
}

func NewExt(m MenuLookup, pub events.Publisher, archive storage.Archive) *Ext {
	if pub == nil {
		pub = events.Noop{}
	}
	if archive == nil {
		archive = storage.Nop{}
	}
	return &Ext{Menu: m, Events: pub, Receipts: archive}
}
