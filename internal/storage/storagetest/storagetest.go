// Package storagetest holds the behavioural contract every storage.Store
// backend must honour. Backend test files call RunContract with a factory
// returning a fresh, empty store.
package storagetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/zoo-api/internal/id"
	"github.com/aanand-mishra/zoo-api/internal/storage"
	"github.com/aanand-mishra/zoo-api/internal/types"
)

// Factory returns an empty animal store allocating identifiers from ids.
type Factory func(t *testing.T, ids id.Generator) storage.Store[types.Animal]

// Animals used across the suite.
var (
	Maya = types.Animal{Name: "Maya", Species: "Jirafa", Age: 9, Gender: "Hembra"}
	Rex  = types.Animal{Name: "Rex", Species: "Perro", Age: 3, Gender: "Macho"}
	Nala = types.Animal{Name: "Nala", Species: "Leon", Age: 5, Gender: "Hembra"}
)

// RunContract runs the full store contract against stores built by newStore.
func RunContract(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("empty list", func(t *testing.T) {
		s := newStore(t, id.NewSequence(1))
		got, err := s.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("create generates id", func(t *testing.T) {
		s := newStore(t, id.GeneratorFunc(func() string { return "generated-1" }))
		got, err := s.Create(context.Background(), "", Maya)
		require.NoError(t, err)
		assert.Equal(t, Maya.WithID("generated-1"), got)
	})

	t.Run("create keeps candidate id", func(t *testing.T) {
		s := newStore(t, id.NewSequence(1))
		got, err := s.Create(context.Background(), "a1b2c3d4", Maya)
		require.NoError(t, err)
		assert.Equal(t, "a1b2c3d4", got.ID)
	})

	t.Run("create rejects duplicate id", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, id.NewSequence(1))
		_, err := s.Create(ctx, "dup", Maya)
		require.NoError(t, err)

		_, err = s.Create(ctx, "dup", Rex)
		assert.ErrorIs(t, err, storage.ErrAlreadyExists)

		got, err := s.Get(ctx, "dup")
		require.NoError(t, err)
		assert.Equal(t, "Maya", got.Name)
	})

	t.Run("create then get round trip", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, id.NewSequence(1))
		created, err := s.Create(ctx, "", Rex)
		require.NoError(t, err)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("get missing", func(t *testing.T) {
		s := newStore(t, id.NewSequence(1))
		_, err := s.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update replaces fields and keeps id", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, id.NewSequence(1))
		created, err := s.Create(ctx, "", Maya)
		require.NoError(t, err)

		replacement := Nala.WithID("ignored")
		updated, err := s.Update(ctx, created.ID, replacement)
		require.NoError(t, err)
		assert.Equal(t, Nala.WithID(created.ID), updated)

		got, err := s.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, updated, got)

		_, err = s.Get(ctx, "ignored")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update missing does not create", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, id.NewSequence(1))
		_, err := s.Update(ctx, "ghost", Maya)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("delete is terminal", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, id.NewSequence(1))
		created, err := s.Create(ctx, "", Maya)
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, created.ID))

		_, err = s.Get(ctx, created.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, created.ID), storage.ErrNotFound)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t, id.NewSequence(1))
		for _, a := range []types.Animal{Maya, Rex, Nala} {
			_, err := s.Create(ctx, "", a)
			require.NoError(t, err)
		}

		_, err := s.Update(ctx, "1", Maya.WithID("1"))
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, "2"))

		all, err := s.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []types.Animal{Maya.WithID("1"), Nala.WithID("3")}, all)
	})
}
