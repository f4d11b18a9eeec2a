// Package datasource orchestrates the document model against a local cache
// and a remote backend.
//
// The DataSource owns the in-memory document store: exactly one canonical
// instance exists per document id, and external holders keep ids, resolving
// through the DataSource rather than holding references into the store. It
// registers itself as a listener on every document it hands out, so any
// setter mutation marks that document dirty for the next PushLocalChanges
// cycle.
//
// Every operation is asynchronous: the caller gets a buffered single-fire
// result channel and is never blocked on I/O. An in-flight fetch cannot be
// cancelled beyond its context; a result arriving after the caller lost
// interest is merged into the canonical instance rather than trusted
// wholesale.
package datasource

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"traveltracker/internal/metrics"
	"traveltracker/internal/models"
	"traveltracker/internal/storage"
)

// Result delivers an asynchronous outcome: a typed payload or an error,
// never both.
type Result[T any] struct {
	Value T
	Err   error
}

// DataSource mediates between the entity model, the local cache and the
// remote backend.
type DataSource struct {
	local  storage.Store
	remote storage.Store

	mu    sync.Mutex
	docs  map[uuid.UUID]models.Entity
	dirty map[uuid.UUID]struct{}
	locks map[uuid.UUID]*sync.Mutex

	loaded chan struct{}
	once   sync.Once
}

// New creates a DataSource over the given local cache and remote backend.
// Start must be called once before issuing operations.
func New(local, remote storage.Store) *DataSource {
	return &DataSource{
		local:  local,
		remote: remote,
		docs:   make(map[uuid.UUID]models.Entity),
		dirty:  make(map[uuid.UUID]struct{}),
		locks:  make(map[uuid.UUID]*sync.Mutex),
		loaded: make(chan struct{}),
	}
}

// Start bulk-loads the local cache into the in-memory store in the
// background and releases the Loaded gate when done. Calling Start more
// than once has no effect.
func (ds *DataSource) Start(ctx context.Context) {
	ds.once.Do(func() {
		go func() {
			defer close(ds.loaded)

			entities, err := ds.local.ListAll(ctx)
			if err != nil {
				slog.Error("initial cache load failed", "error", err)
				return
			}
			for _, e := range entities {
				ds.adopt(e)
			}
			slog.Info("local cache loaded", "documents", len(entities))
		}()
	})
}

// Loaded is closed exactly once, when the initial bulk load has completed.
// It replaces a blocking startup gate: consumers that need the cache
// populated select on it instead of holding a lock.
func (ds *DataSource) Loaded() <-chan struct{} {
	return ds.loaded
}

// AddUser creates a new user document.
func (ds *DataSource) AddUser(ctx context.Context) <-chan Result[*models.User] {
	return run(ds, "addUser", func() (*models.User, error) {
		user := models.NewUser(uuid.New())
		return user, ds.addNew(ctx, "addUser", user)
	})
}

// AddClaim creates a new claim owned by the given user.
func (ds *DataSource) AddClaim(ctx context.Context, user uuid.UUID) <-chan Result[*models.Claim] {
	return run(ds, "addClaim", func() (*models.Claim, error) {
		claim := models.NewClaim(uuid.New(), user)
		return claim, ds.addNew(ctx, "addClaim", claim)
	})
}

// AddItem creates a new expense item belonging to the given claim.
func (ds *DataSource) AddItem(ctx context.Context, claim uuid.UUID) <-chan Result[*models.Item] {
	return run(ds, "addItem", func() (*models.Item, error) {
		item := models.NewItem(uuid.New(), claim)
		return item, ds.addNew(ctx, "addItem", item)
	})
}

// GetUser resolves a user by id.
func (ds *DataSource) GetUser(ctx context.Context, id uuid.UUID) <-chan Result[*models.User] {
	return run(ds, "getUser", func() (*models.User, error) {
		return resolveAs[*models.User](ds, ctx, "getUser", id)
	})
}

// GetClaim resolves a claim by id.
func (ds *DataSource) GetClaim(ctx context.Context, id uuid.UUID) <-chan Result[*models.Claim] {
	return run(ds, "getClaim", func() (*models.Claim, error) {
		return resolveAs[*models.Claim](ds, ctx, "getClaim", id)
	})
}

// GetItem resolves an expense item by id.
func (ds *DataSource) GetItem(ctx context.Context, id uuid.UUID) <-chan Result[*models.Item] {
	return run(ds, "getItem", func() (*models.Item, error) {
		return resolveAs[*models.Item](ds, ctx, "getItem", id)
	})
}

// ClaimsForUser lists the claims owned by a user. The remote backend is
// consulted to pick up documents not yet cached; when it is unreachable the
// list is served from memory.
func (ds *DataSource) ClaimsForUser(ctx context.Context, user uuid.UUID) <-chan Result[[]*models.Claim] {
	return run(ds, "getClaimsForUser", func() ([]*models.Claim, error) {
		return listAs[*models.Claim](ds, ctx, models.KindClaim, user)
	})
}

// ItemsForClaim lists the expense items belonging to a claim.
func (ds *DataSource) ItemsForClaim(ctx context.Context, claim uuid.UUID) <-chan Result[[]*models.Item] {
	return run(ds, "getItemsForClaim", func() ([]*models.Item, error) {
		return listAs[*models.Item](ds, ctx, models.KindItem, claim)
	})
}

// PushLocalChanges pushes every dirty document to the remote backend. Each
// document is first reconciled against the current remote copy through the
// merge engine, then the merged state is committed remotely and to the
// local cache, and the dirty mark is cleared. Documents that fail stay
// dirty for the next cycle. Pushes for distinct ids run in parallel; work
// on a single id is serialized.
//
// The result carries the number of documents successfully pushed.
func (ds *DataSource) PushLocalChanges(ctx context.Context) <-chan Result[int] {
	return run(ds, "pushLocalChanges", func() (int, error) {
		start := time.Now()
		defer func() {
			metrics.PushDuration.Observe(time.Since(start).Seconds())
		}()

		ds.mu.Lock()
		ids := make([]uuid.UUID, 0, len(ds.dirty))
		for id := range ds.dirty {
			ids = append(ids, id)
		}
		ds.mu.Unlock()

		if len(ids) == 0 {
			return 0, nil
		}

		var pushed sync.Map
		g, gctx := errgroup.WithContext(ctx)
		for _, id := range ids {
			g.Go(func() error {
				if err := ds.pushOne(gctx, id); err != nil {
					return err
				}
				pushed.Store(id, struct{}{})
				return nil
			})
		}
		err := g.Wait()

		count := 0
		pushed.Range(func(any, any) bool { count++; return true })
		slog.Info("push cycle finished", "dirty", len(ids), "pushed", count, "error", err)
		return count, err
	})
}

// pushOne reconciles and commits a single dirty document.
func (ds *DataSource) pushOne(ctx context.Context, id uuid.UUID) error {
	lock := ds.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	ds.mu.Lock()
	e, ok := ds.docs[id]
	ds.mu.Unlock()
	if !ok {
		// Dirty mark without a resident document: nothing to push.
		ds.clearDirty(id)
		return nil
	}

	remoteCopy, err := ds.remote.Get(ctx, id)
	switch {
	case err == nil:
		changed, mergeErr := models.Merge(e, remoteCopy)
		if mergeErr != nil {
			return mergeErr
		}
		metrics.ObserveMerge(changed)
	case errors.Is(err, models.ErrNotFound):
		// First push of a new document.
	default:
		return err
	}

	if err := ds.remote.Put(ctx, e); err != nil {
		return err
	}
	if err := ds.local.Put(ctx, e); err != nil {
		return err
	}
	ds.clearDirty(id)
	return nil
}

// documentChanged is the listener the DataSource registers on every
// document it hands out.
func (ds *DataSource) documentChanged(e models.Entity) {
	ds.mu.Lock()
	ds.dirty[e.UUID()] = struct{}{}
	metrics.DirtyDocuments.Set(float64(len(ds.dirty)))
	ds.mu.Unlock()
}

func (ds *DataSource) clearDirty(id uuid.UUID) {
	ds.mu.Lock()
	delete(ds.dirty, id)
	metrics.DirtyDocuments.Set(float64(len(ds.dirty)))
	ds.mu.Unlock()
}

// dirtyCount reports how many documents await the next push.
func (ds *DataSource) dirtyCount() int {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	return len(ds.dirty)
}

// lockFor returns the mutex serializing work on one document id.
func (ds *DataSource) lockFor(id uuid.UUID) *sync.Mutex {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	lock, ok := ds.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		ds.locks[id] = lock
	}
	return lock
}

// adopt makes an entity canonical: if the id is already resident the
// incoming copy is merged into the existing instance, otherwise the entity
// is stored and the DataSource registers itself as listener.
func (ds *DataSource) adopt(e models.Entity) models.Entity {
	lock := ds.lockFor(e.UUID())
	lock.Lock()
	defer lock.Unlock()

	ds.mu.Lock()
	existing, ok := ds.docs[e.UUID()]
	if !ok {
		ds.docs[e.UUID()] = e
		ds.mu.Unlock()
		e.Register(ds.documentChanged)
		return e
	}
	ds.mu.Unlock()

	// Merging writes fields directly, so absorbing a fetched copy does not
	// re-dirty the canonical instance.
	changed, err := models.Merge(existing, e)
	if err != nil {
		slog.Warn("discarding fetched copy", "id", e.UUID(), "error", err)
		return existing
	}
	metrics.ObserveMerge(changed)
	return existing
}

// addNew registers a freshly created document, persists it to the local
// cache and marks it dirty for the next push.
func (ds *DataSource) addNew(ctx context.Context, op string, e models.Entity) error {
	<-ds.loaded
	ds.adopt(e)
	ds.documentChanged(e)
	if err := ds.local.Put(ctx, e); err != nil {
		return models.NewDocumentError(op, e.UUID(), err)
	}
	return nil
}

// resolve finds the canonical entity for an id: memory first, then the
// local cache, then the remote backend.
func (ds *DataSource) resolve(ctx context.Context, op string, id uuid.UUID) (models.Entity, error) {
	<-ds.loaded

	ds.mu.Lock()
	e, ok := ds.docs[id]
	ds.mu.Unlock()
	if ok {
		return e, nil
	}

	if e, err := ds.local.Get(ctx, id); err == nil {
		return ds.adopt(e), nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	e, err := ds.remote.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	e = ds.adopt(e)
	if err := ds.local.Put(ctx, e); err != nil {
		slog.Warn("failed to cache fetched document", "id", id, "error", err)
	}
	return e, nil
}

// resolveAs resolves an id and checks the concrete kind.
func resolveAs[T models.Entity](ds *DataSource, ctx context.Context, op string, id uuid.UUID) (T, error) {
	var zero T
	e, err := ds.resolve(ctx, op, id)
	if err != nil {
		return zero, err
	}
	v, ok := e.(T)
	if !ok {
		return zero, models.NewDocumentError(op, id, models.ErrTypeMismatch)
	}
	return v, nil
}

// listAs lists documents of one kind by owner, refreshing from the remote
// backend when reachable.
func listAs[T models.Entity](ds *DataSource, ctx context.Context, kind models.Kind, owner uuid.UUID) ([]T, error) {
	<-ds.loaded

	fetched, err := ds.remote.ListByKind(ctx, kind, owner)
	if err != nil {
		if !errors.Is(err, models.ErrTransient) {
			return nil, err
		}
		slog.Warn("remote unreachable, listing from cache", "kind", kind.String(), "error", err)
	}
	for _, e := range fetched {
		canonical := ds.adopt(e)
		if err := ds.local.Put(ctx, canonical); err != nil {
			slog.Warn("failed to cache fetched document", "id", canonical.UUID(), "error", err)
		}
	}

	ds.mu.Lock()
	defer ds.mu.Unlock()
	var out []T
	for _, e := range ds.docs {
		if e.Kind() != kind {
			continue
		}
		if owner != uuid.Nil && models.Owner(e) != owner {
			continue
		}
		if v, ok := e.(T); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// run executes an operation on its own goroutine and delivers the outcome
// on a buffered single-fire channel.
func run[T any](ds *DataSource, op string, fn func() (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		value, err := fn()
		metrics.ObserveOperation(op, outcome(err))
		if err != nil {
			slog.Debug("datasource operation failed", "op", op, "error", err)
		}
		out <- Result[T]{Value: value, Err: err}
	}()
	return out
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrTransient):
		return "transient"
	default:
		return "error"
	}
}
