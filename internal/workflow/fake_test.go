package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/store/memstore"
)

var errOffline = errors.New("network unreachable")

// fakeStore counts calls and fails the operations named in failing.
type fakeStore struct {
	*memstore.Store

	mu      sync.Mutex
	calls   map[string]int
	failing map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		Store:   memstore.New(nil),
		calls:   make(map[string]int),
		failing: make(map[string]bool),
	}
}

func (f *fakeStore) hit(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	if f.failing[op] {
		return domain.WrapStore(op, errOffline)
	}
	return nil
}

func (f *fakeStore) fail(op string, on bool) {
	f.mu.Lock()
	f.failing[op] = on
	f.mu.Unlock()
}

func (f *fakeStore) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeStore) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeStore) ListAll(ctx context.Context) ([]domain.Product, error) {
	if err := f.hit("list"); err != nil {
		return nil, err
	}
	return f.Store.ListAll(ctx)
}

func (f *fakeStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if err := f.hit("get"); err != nil {
		return nil, err
	}
	return f.Store.GetByID(ctx, id)
}

func (f *fakeStore) Insert(ctx context.Context, p domain.Product) (string, error) {
	if err := f.hit("insert"); err != nil {
		return "", err
	}
	return f.Store.Insert(ctx, p)
}

func (f *fakeStore) UpdateByID(ctx context.Context, id string, p domain.Product) error {
	if err := f.hit("update"); err != nil {
		return err
	}
	return f.Store.UpdateByID(ctx, id, p)
}

func (f *fakeStore) DeleteByID(ctx context.Context, id string) error {
	if err := f.hit("delete"); err != nil {
		return err
	}
	return f.Store.DeleteByID(ctx, id)
}

type recordingNotifier struct {
	mu       sync.Mutex
	errors   []error
	messages []string
}

func (r *recordingNotifier) Success(_, msg string) {
	r.mu.Lock()
	r.messages = append(r.messages, msg)
	r.mu.Unlock()
}

func (r *recordingNotifier) Error(_ string, err error) {
	r.mu.Lock()
	r.errors = append(r.errors, err)
	r.mu.Unlock()
}

func (r *recordingNotifier) errorCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

type countingNavigator struct {
	mu   sync.Mutex
	back int
}

func (n *countingNavigator) Back(context.Context) {
	n.mu.Lock()
	n.back++
	n.mu.Unlock()
}

func (n *countingNavigator) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.back
}

// writeImage drops a small file into a temp dir and returns its path.
func writeImage(t *testing.T, content string) string {
	t.Helper()
	ref := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(ref, []byte(content), 0o600))
	return ref
}
