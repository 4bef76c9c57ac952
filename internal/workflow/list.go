package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/store"
)

type State int

const (
	Idle State = iota
	Loading
	Loaded
	Failed
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

const fetchTimeout = 30 * time.Second

const (
	deleteTitle   = "Confirm"
	deleteMessage = "Are you sure you want to delete this product?"
)

// ListScreen holds one screen's snapshot of the product collection. The
// snapshot is replaced whole on every successful refresh and kept as is when
// a refresh fails.
type ListScreen struct {
	name     string
	store    store.ProductStore
	notifier Notifier

	mu       sync.Mutex
	state    State
	products []domain.Product
	lastErr  error
	torn     bool
	bus      EventBus.Bus
	onFocus  func(ctx context.Context)
	// ids deleted while a fetch is in flight; nil when idle
	deleted map[string]struct{}

	fetch singleflight.Group
}

func NewListScreen(name string, s store.ProductStore, n Notifier) *ListScreen {
	if n == nil {
		n = LogNotifier{}
	}
	l := &ListScreen{name: name, store: s, notifier: n}
	l.onFocus = func(ctx context.Context) {
		_ = l.Refresh(ctx)
	}
	return l
}

func (l *ListScreen) Name() string {
	return l.name
}

// Mount loads the list for the first time.
func (l *ListScreen) Mount(ctx context.Context) error {
	return l.Refresh(ctx)
}

// Attach refreshes the screen every time its focus topic is published.
func (l *ListScreen) Attach(bus EventBus.Bus) error {
	if err := bus.Subscribe(FocusTopic(l.name), l.onFocus); err != nil {
		return err
	}
	l.mu.Lock()
	l.bus = bus
	l.mu.Unlock()
	return nil
}

// Unmount detaches the screen; results of calls still in flight are dropped.
func (l *ListScreen) Unmount() {
	l.mu.Lock()
	bus := l.bus
	l.bus = nil
	l.torn = true
	l.mu.Unlock()
	if bus != nil {
		_ = bus.Unsubscribe(FocusTopic(l.name), l.onFocus)
	}
}

// Refresh refetches the whole collection. Concurrent calls share one fetch;
// the fetch outlives any single caller, so a canceled caller only stops
// waiting for it.
func (l *ListScreen) Refresh(ctx context.Context) error {
	l.mu.Lock()
	if l.torn {
		l.mu.Unlock()
		return nil
	}
	if err := ctx.Err(); err != nil {
		l.failLocked(err)
		l.mu.Unlock()
		return err
	}
	l.mu.Unlock()

	ch := l.fetch.DoChan("list", func() (interface{}, error) {
		return nil, l.load(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// load runs one fetch and applies its result. Products deleted while the
// fetch was in flight are left out of the new snapshot.
func (l *ListScreen) load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	l.mu.Lock()
	if l.torn {
		l.mu.Unlock()
		return nil
	}
	l.state = Loading
	l.deleted = make(map[string]struct{})
	l.mu.Unlock()

	items, err := l.store.ListAll(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	deleted := l.deleted
	l.deleted = nil
	if l.torn {
		return nil
	}
	if err != nil {
		l.failLocked(err)
		return err
	}
	l.products = make([]domain.Product, 0, len(items))
	for _, p := range items {
		if _, gone := deleted[p.ID]; !gone {
			l.products = append(l.products, p)
		}
	}
	l.state = Loaded
	l.lastErr = nil
	return nil
}

// failLocked marks the refresh failed and keeps the snapshot. l.mu is held.
func (l *ListScreen) failLocked(err error) {
	if l.torn {
		return
	}
	l.state = Failed
	l.lastErr = err
	zap.L().Error("list products failed",
		zap.String("namespace", "workflow"),
		zap.String("screen", l.name),
		zap.Int("kept", len(l.products)),
		zap.Error(err),
	)
	l.notifier.Error("Could not load products", err)
}

// Delete asks for confirmation, deletes by id and drops the product from the
// local snapshot without refetching. It reports whether anything was deleted.
func (l *ListScreen) Delete(ctx context.Context, id string, c Confirmer) (bool, error) {
	if c == nil || !c.Confirm(ctx, deleteTitle, deleteMessage) {
		return false, nil
	}
	err := l.store.DeleteByID(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		zap.L().Error("delete product failed",
			zap.String("namespace", "workflow"),
			zap.String("id", id),
			zap.Error(err),
		)
		if !l.torn {
			l.notifier.Error("Could not delete product", err)
		}
		return false, err
	}
	if l.torn {
		return true, nil
	}
	if l.deleted != nil {
		l.deleted[id] = struct{}{}
	}
	kept := l.products[:0:0]
	for _, p := range l.products {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	l.products = kept
	return true, nil
}

// Products returns a copy of the current snapshot.
func (l *ListScreen) Products() []domain.Product {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.Product, len(l.products))
	copy(out, l.products)
	return out
}

func (l *ListScreen) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *ListScreen) LastError() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastErr
}
