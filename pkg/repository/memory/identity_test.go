package memory_test

import (
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
	"github.com/secmon-lab/panoptes/pkg/repository/memory"
)

func TestIdentity(t *testing.T) {
	t.Run("starts empty", func(t *testing.T) {
		table := memory.NewIdentity()

		gt.Value(t, table.Size()).Equal(0)
		_, ok := table.Lookup("u1")
		gt.Bool(t, ok).False()
	})

	t.Run("Replace swaps the whole table", func(t *testing.T) {
		table := memory.NewIdentity()

		table.Replace(map[model.UserID]string{
			"u1": "alice@example.com",
			"u2": "bob@example.com",
		})

		name, ok := table.Lookup("u1")
		gt.Bool(t, ok).True()
		gt.Value(t, name).Equal("alice@example.com")
		gt.Value(t, table.Size()).Equal(2)

		// A new cycle replaces the table; entries of the prior
		// subscription must not remain visible.
		table.Replace(map[model.UserID]string{
			"u3": "carol@example.com",
		})

		_, ok = table.Lookup("u1")
		gt.Bool(t, ok).False()
		name, ok = table.Lookup("u3")
		gt.Bool(t, ok).True()
		gt.Value(t, name).Equal("carol@example.com")
		gt.Value(t, table.Size()).Equal(1)
	})

	t.Run("Replace clones the input map", func(t *testing.T) {
		table := memory.NewIdentity()

		users := map[model.UserID]string{"u1": "alice@example.com"}
		table.Replace(users)

		users["u1"] = "mallory@example.com"
		users["u2"] = "extra@example.com"

		name, ok := table.Lookup("u1")
		gt.Bool(t, ok).True()
		gt.Value(t, name).Equal("alice@example.com")
		gt.Value(t, table.Size()).Equal(1)
	})

	t.Run("Replace with nil yields empty table", func(t *testing.T) {
		table := memory.NewIdentity()
		table.Replace(map[model.UserID]string{"u1": "alice@example.com"})

		table.Replace(nil)

		gt.Value(t, table.Size()).Equal(0)
	})

	t.Run("concurrent readers and swaps", func(t *testing.T) {
		table := memory.NewIdentity()
		table.Replace(map[model.UserID]string{"u1": "alice@example.com"})

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for range 100 {
					table.Replace(map[model.UserID]string{"u1": "alice@example.com"})
				}
			}()
			go func() {
				defer wg.Done()
				for range 100 {
					name, ok := table.Lookup("u1")
					gt.Bool(t, ok).True()
					gt.Value(t, name).Equal("alice@example.com")
				}
			}()
		}
		wg.Wait()
	})
}
