package workflow

import (
	"context"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/imagecodec"
	"github.com/talkincode/bodega/internal/picker"
	"github.com/talkincode/bodega/internal/record"
)

type failingPicker struct{ err error }

func (p failingPicker) Pick(context.Context) (picker.Selection, error) {
	return picker.Selection{}, p.err
}

func createChair(t *testing.T, s *fakeStore) (string, domain.Product) {
	t.Helper()
	p, err := record.Normalize(record.Draft{
		Name: "Chair", Description: "Wood", Quantity: "5", Price: "49.99",
		Image: imagecodec.EncodeBytes([]byte("chair")),
	})
	require.NoError(t, err)
	id, err := s.Store.Insert(context.Background(), p)
	require.NoError(t, err)
	p.ID = id
	return id, p
}

func TestEditQuantityScenario(t *testing.T) {
	s := newFakeStore()
	id, before := createChair(t, s)
	nav := &countingNavigator{}

	e := NewEditScreen(id, s, &recordingNotifier{}, nav)
	require.NoError(t, e.Load(context.Background()))
	form := e.Form()
	assert.Equal(t, "5", form.Quantity)
	assert.Equal(t, "49.99", form.Price)
	assert.Equal(t, imagecodec.Decode(before.Image), form.Preview)

	e.Edit(func(d *record.Draft) { d.Quantity = "3" })
	require.NoError(t, e.Submit(context.Background()))
	assert.Equal(t, 1, nav.count())
	assert.Equal(t, 1, s.count("update"))

	after, err := s.Store.GetByID(context.Background(), id)
	require.NoError(t, err)
	expected := before
	expected.Quantity = 3
	assert.Equal(t, expected, *after)
}

func TestEditNotFoundNavigatesBack(t *testing.T) {
	s := newFakeStore()
	nav := &countingNavigator{}
	n := &recordingNotifier{}
	e := NewEditScreen("missing", s, n, nav)

	err := e.Load(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, 1, nav.count())
	assert.Equal(t, 1, n.errorCount())

	assert.ErrorIs(t, e.Submit(context.Background()), ErrNotLoaded)
	assert.Equal(t, 0, s.count("update"))
}

func TestEditStoreFailure(t *testing.T) {
	s := newFakeStore()
	id, before := createChair(t, s)
	nav := &countingNavigator{}
	e := NewEditScreen(id, s, &recordingNotifier{}, nav)
	require.NoError(t, e.Load(context.Background()))

	s.fail("update", true)
	e.Edit(func(d *record.Draft) { d.Name = "Stool" })
	err := e.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, nav.count(), "stays on the screen")

	after, err := s.Store.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, before, *after)
}

func TestEditRejectsInvalidDraft(t *testing.T) {
	s := newFakeStore()
	id, _ := createChair(t, s)
	e := NewEditScreen(id, s, &recordingNotifier{}, nil)
	require.NoError(t, e.Load(context.Background()))

	e.Edit(func(d *record.Draft) { d.Price = "abc" })
	err := e.Submit(context.Background())
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 0, s.count("update"))
}

func TestEditPickImageEncodesImmediately(t *testing.T) {
	s := newFakeStore()
	id, _ := createChair(t, s)
	e := NewEditScreen(id, s, &recordingNotifier{}, nil)
	require.NoError(t, e.Load(context.Background()))

	ref := writeImage(t, "new-photo")
	require.NoError(t, e.PickImage(context.Background(), picker.Static{Ref: ref}))
	form := e.Form()
	assert.Equal(t, imagecodec.EncodeBytes([]byte("new-photo")), form.Image)
	assert.Equal(t, imagecodec.Decode(form.Image), form.Preview)

	require.NoError(t, e.PickImage(context.Background(), picker.Static{Canceled: true}))
	assert.Equal(t, form, e.Form())

	denied := &domain.PermissionError{Resource: "library"}
	err := e.PickImage(context.Background(), failingPicker{err: denied})
	assert.True(t, domain.IsPermission(err))
	assert.Equal(t, form, e.Form())
}

func TestEditBackRefreshesListThroughFocus(t *testing.T) {
	s := newFakeStore()
	id, _ := createChair(t, s)
	bus := EventBus.New()

	l := NewListScreen("productos", s, nil)
	require.NoError(t, l.Attach(bus))
	require.NoError(t, l.Mount(context.Background()))

	e := NewEditScreen(id, s, nil, BusNavigator{Bus: bus, Target: "productos"})
	require.NoError(t, e.Load(context.Background()))
	e.Edit(func(d *record.Draft) { d.Quantity = "3" })
	require.NoError(t, e.Submit(context.Background()))

	require.Len(t, l.Products(), 1)
	assert.Equal(t, 3, l.Products()[0].Quantity)
}

func TestEditUnmountedLoadDiscarded(t *testing.T) {
	s := newFakeStore()
	id, _ := createChair(t, s)
	e := NewEditScreen(id, s, nil, nil)
	e.Unmount()
	require.NoError(t, e.Load(context.Background()))
	assert.Equal(t, record.EditableDraft{}, e.Form())
	assert.ErrorIs(t, e.Submit(context.Background()), ErrNotLoaded)
}
