package client

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	domicile  = Jersey{ID: 1, Name: "Maillot Domicile", Price: 5000}
	exterieur = Jersey{ID: 2, Name: "Maillot Extérieur", Price: 6000}
)

func TestAddMergesSameJersey(t *testing.T) {
	cart := NewCart(NewMemStorage())

	require.NoError(t, cart.Add(domicile, 2))
	require.NoError(t, cart.Add(domicile, 3))

	entries := cart.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Quantity)
	assert.Equal(t, 5, cart.TotalCount())
	assert.Equal(t, 25000.0, cart.TotalPrice())
}

func TestAddClampsQuantity(t *testing.T) {
	cart := NewCart(NewMemStorage())

	require.NoError(t, cart.Add(domicile, 0))
	require.NoError(t, cart.Add(exterieur, -4))

	for _, e := range cart.Entries() {
		assert.Equal(t, 1, e.Quantity)
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	cart := NewCart(NewMemStorage())
	require.NoError(t, cart.Add(domicile, 1))

	require.NoError(t, cart.Remove(99))
	require.Len(t, cart.Entries(), 1)

	require.NoError(t, cart.Remove(domicile.ID))
	assert.True(t, cart.Empty())
}

func TestUpdateQuantity(t *testing.T) {
	cart := NewCart(NewMemStorage())
	require.NoError(t, cart.Add(domicile, 2))

	require.NoError(t, cart.UpdateQuantity(domicile.ID, 7))
	assert.Equal(t, 7, cart.Entries()[0].Quantity)

	require.NoError(t, cart.UpdateQuantity(domicile.ID, 0))
	assert.Equal(t, 1, cart.Entries()[0].Quantity, "quantity is clamped to 1")

	require.NoError(t, cart.UpdateQuantity(99, 5))
	require.Len(t, cart.Entries(), 1)
}

func TestCartSurvivesReload(t *testing.T) {
	storage := NewMemStorage()

	cart := NewCart(storage)
	require.NoError(t, cart.Add(domicile, 2))
	require.NoError(t, cart.Add(exterieur, 1))

	reloaded := NewCart(storage)
	require.Len(t, reloaded.Entries(), 2)
	assert.Equal(t, 3, reloaded.TotalCount())
	assert.Equal(t, 16000.0, reloaded.TotalPrice())
}

func TestCartSurvivesReloadOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "storage.json")

	cart := NewCart(NewFileStorage(path))
	require.NoError(t, cart.Add(domicile, 2))

	reloaded := NewCart(NewFileStorage(path))
	require.Len(t, reloaded.Entries(), 1)
	assert.Equal(t, 2, reloaded.Entries()[0].Quantity)
}

func TestCorruptSnapshotStartsEmpty(t *testing.T) {
	storage := NewMemStorage()
	require.NoError(t, storage.Set(CartKey, "{corrupt"))

	cart := NewCart(storage)
	assert.True(t, cart.Empty())
}

func TestClearAllDropsSnapshot(t *testing.T) {
	storage := NewMemStorage()
	cart := NewCart(storage)
	require.NoError(t, cart.Add(domicile, 2))

	require.NoError(t, cart.ClearAll())
	assert.True(t, cart.Empty())

	_, ok := storage.Get(CartKey)
	assert.False(t, ok)
}

func TestLinesSnapshotNameAndPrice(t *testing.T) {
	cart := NewCart(NewMemStorage())
	require.NoError(t, cart.Add(domicile, 2))
	require.NoError(t, cart.Add(exterieur, 1))

	lines := cart.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "Maillot Domicile", lines[0].Jersey.Name)
	assert.Equal(t, 5000.0, lines[0].Jersey.Price)
	assert.Equal(t, 2, lines[0].Quantity)
}
