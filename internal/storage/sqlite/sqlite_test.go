package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/zoo-api/internal/id"
	"github.com/aanand-mishra/zoo-api/internal/storage"
	"github.com/aanand-mishra/zoo-api/internal/storage/storagetest"
	"github.com/aanand-mishra/zoo-api/internal/types"
)

func openTemp(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "zoo.db")
}

func TestContract(t *testing.T) {
	storagetest.RunContract(t, func(t *testing.T, ids id.Generator) storage.Store[types.Animal] {
		db, err := Open(openTemp(t))
		require.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		s, err := New[types.Animal](context.Background(), db, "animals", ids)
		require.NoError(t, err)
		return s
	})
}

func TestNew_RejectsInvalidTableName(t *testing.T) {
	db, err := Open(openTemp(t))
	require.NoError(t, err)
	defer db.Close()

	_, err = New[types.User](context.Background(), db, "users; DROP TABLE x", id.UUID())
	assert.Error(t, err)
}

func TestRecordsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	path := openTemp(t)

	db, err := Open(path)
	require.NoError(t, err)
	s, err := New[types.Zookeeper](ctx, db, "zookeepers", id.NewSequence(1))
	require.NoError(t, err)

	created, err := s.Create(ctx, "", types.Zookeeper{
		Name:              "Ana",
		Email:             "ana@zoo.com",
		Specialization:    "Aves",
		YearsOfExperience: 4,
	})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	s, err = New[types.Zookeeper](ctx, db, "zookeepers", id.NewSequence(1))
	require.NoError(t, err)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestTablesAreIndependent(t *testing.T) {
	ctx := context.Background()
	db, err := Open(openTemp(t))
	require.NoError(t, err)
	defer db.Close()

	users, err := New[types.User](ctx, db, "users", id.NewSequence(1))
	require.NoError(t, err)
	habitats, err := New[types.Habitat](ctx, db, "habitats", id.NewSequence(1))
	require.NoError(t, err)

	_, err = users.Create(ctx, "", types.User{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)

	all, err := habitats.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
