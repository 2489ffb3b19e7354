package interfaces

import (
	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

// IdentityRepository holds the id to principal-name mapping used to resolve
// presence notifications. The table is written once per subscription cycle
// and read on every notification.
type IdentityRepository interface {
	// Replace atomically swaps the whole table. Readers never observe a
	// partially written table.
	Replace(users map[model.UserID]string)

	// Lookup resolves id to a principal name. A miss is not an error.
	Lookup(id model.UserID) (string, bool)

	// Size returns the number of entries in the current table
	Size() int
}
