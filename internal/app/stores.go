package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/zoo-api/internal/config"
	"github.com/aanand-mishra/zoo-api/internal/id"
	"github.com/aanand-mishra/zoo-api/internal/storage"
	"github.com/aanand-mishra/zoo-api/internal/storage/dynamodb"
	"github.com/aanand-mishra/zoo-api/internal/storage/memory"
	"github.com/aanand-mishra/zoo-api/internal/storage/mongodb"
	"github.com/aanand-mishra/zoo-api/internal/storage/sqlite"
	"github.com/aanand-mishra/zoo-api/internal/types"
)

// Collection (table) names, one per resource.
const (
	usersName      = "users"
	zookeepersName = "zookeepers"
	habitatsName   = "habitats"
	animalsName    = "animals"
)

// Stores holds one store per resource plus whatever must be released on
// shutdown.
type Stores struct {
	Users      storage.Store[types.User]
	Zookeepers storage.Store[types.Zookeeper]
	Habitats   storage.Store[types.Habitat]
	Animals    storage.Store[types.Animal]

	closers []func(context.Context) error
}

// Close releases backend connections.
func (s *Stores) Close(ctx context.Context) error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c(ctx))
	}
	return errors.Join(errs...)
}

// IDs returns a fresh generator for one resource. Each resource owns its
// own sequence, like separate auto-increment columns.
type IDs func() id.Generator

// NewIDs returns the IDs factory for a configured scheme.
func NewIDs(scheme string) (IDs, error) {
	if _, err := id.FromScheme(scheme); err != nil {
		return nil, err
	}
	return func() id.Generator {
		g, _ := id.FromScheme(scheme)
		return g
	}, nil
}

// MemoryStores returns empty in-memory stores.
func MemoryStores(ids IDs) *Stores {
	return &Stores{
		Users:      memory.New[types.User](ids()),
		Zookeepers: memory.New[types.Zookeeper](ids()),
		Habitats:   memory.New[types.Habitat](ids()),
		Animals:    memory.New[types.Animal](ids()),
	}
}

// OpenStores connects to the configured backend.
func OpenStores(ctx context.Context, cfg config.Storage, ids IDs, log *slog.Logger) (*Stores, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory storage: data is lost on restart")
		return MemoryStores(ids), nil
	case config.BackendSQLite:
		return openSQLite(ctx, cfg.SQLite, ids)
	case config.BackendMongoDB:
		return openMongoDB(ctx, cfg.MongoDB, ids)
	case config.BackendDynamoDB:
		return openDynamoDB(ctx, cfg.DynamoDB, ids, log)
	default:
		return nil, fmt.Errorf("app.OpenStores: unknown backend %q", cfg.Backend)
	}
}

func openSQLite(ctx context.Context, cfg config.SQLite, ids IDs) (*Stores, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("app.openSQLite: create dir: %w", err)
		}
	}

	db, err := sqlite.Open(cfg.Path)
	if err != nil {
		return nil, err
	}

	stores := &Stores{closers: []func(context.Context) error{
		func(context.Context) error { return db.Close() },
	}}

	fail := func(err error) (*Stores, error) {
		_ = db.Close()
		return nil, fmt.Errorf("app.openSQLite: %w", err)
	}

	if stores.Users, err = sqlite.New[types.User](ctx, db, usersName, ids()); err != nil {
		return fail(err)
	}
	if stores.Zookeepers, err = sqlite.New[types.Zookeeper](ctx, db, zookeepersName, ids()); err != nil {
		return fail(err)
	}
	if stores.Habitats, err = sqlite.New[types.Habitat](ctx, db, habitatsName, ids()); err != nil {
		return fail(err)
	}
	if stores.Animals, err = sqlite.New[types.Animal](ctx, db, animalsName, ids()); err != nil {
		return fail(err)
	}
	return stores, nil
}

func openMongoDB(ctx context.Context, cfg config.MongoDB, ids IDs) (*Stores, error) {
	client, db, err := mongodb.Connect(ctx, cfg.URI, cfg.Database, cfg.ConnectTimeout)
	if err != nil {
		return nil, err
	}

	stores := &Stores{closers: []func(context.Context) error{client.Disconnect}}

	fail := func(err error) (*Stores, error) {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("app.openMongoDB: %w", err)
	}

	if stores.Users, err = mongodb.New[types.User](ctx, db, usersName, ids()); err != nil {
		return fail(err)
	}
	if stores.Zookeepers, err = mongodb.New[types.Zookeeper](ctx, db, zookeepersName, ids()); err != nil {
		return fail(err)
	}
	if stores.Habitats, err = mongodb.New[types.Habitat](ctx, db, habitatsName, ids()); err != nil {
		return fail(err)
	}
	if stores.Animals, err = mongodb.New[types.Animal](ctx, db, animalsName, ids()); err != nil {
		return fail(err)
	}
	return stores, nil
}

func openDynamoDB(ctx context.Context, cfg config.DynamoDB, ids IDs, log *slog.Logger) (*Stores, error) {
	client, err := dynamodb.NewClient(ctx, cfg.Region, cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	table := func(name string) (string, error) {
		t := cfg.TablePrefix + name
		if cfg.CreateTables {
			if err := dynamodb.EnsureTable(ctx, client, t); err != nil {
				return "", err
			}
			log.Info("dynamodb table ready", slog.String("table", t))
		}
		return t, nil
	}

	names := make(map[string]string, 4)
	for _, n := range []string{usersName, zookeepersName, habitatsName, animalsName} {
		t, err := table(n)
		if err != nil {
			return nil, fmt.Errorf("app.openDynamoDB: %w", err)
		}
		names[n] = t
	}

	return &Stores{
		Users:      dynamodb.New[types.User](client, names[usersName], ids()),
		Zookeepers: dynamodb.New[types.Zookeeper](client, names[zookeepersName], ids()),
		Habitats:   dynamodb.New[types.Habitat](client, names[habitatsName], ids()),
		Animals:    dynamodb.New[types.Animal](client, names[animalsName], ids()),
	}, nil
}
