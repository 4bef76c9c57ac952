package workflow

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/imagecodec"
	"github.com/talkincode/bodega/internal/picker"
	"github.com/talkincode/bodega/internal/record"
	"github.com/talkincode/bodega/internal/store"
)

var ErrNotLoaded = errors.New("product not loaded")

// EditScreen edits one product by id and writes it back whole.
type EditScreen struct {
	id       string
	store    store.ProductStore
	notifier Notifier
	nav      Navigator

	mu     sync.Mutex
	form   record.EditableDraft
	loaded bool
	torn   bool
}

func NewEditScreen(id string, s store.ProductStore, n Notifier, nav Navigator) *EditScreen {
	if n == nil {
		n = LogNotifier{}
	}
	if nav == nil {
		nav = NopNavigator{}
	}
	return &EditScreen{id: id, store: s, notifier: n, nav: nav}
}

func (e *EditScreen) ID() string {
	return e.id
}

// Load fetches the record. A missing record is reported and the screen
// navigates back without writing anything.
func (e *EditScreen) Load(ctx context.Context) error {
	p, err := e.store.GetByID(ctx, e.id)

	e.mu.Lock()
	if e.torn {
		e.mu.Unlock()
		return nil
	}
	if err != nil {
		e.mu.Unlock()
		zap.L().Error("load product failed",
			zap.String("namespace", "workflow"),
			zap.String("id", e.id),
			zap.Error(err),
		)
		if domain.IsNotFound(err) {
			e.notifier.Error("Product not found", err)
			e.nav.Back(ctx)
		} else {
			e.notifier.Error("Could not load product", err)
		}
		return err
	}
	e.form = record.Denormalize(*p)
	e.loaded = true
	e.mu.Unlock()
	return nil
}

func (e *EditScreen) Form() record.EditableDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.form
}

// Edit changes form fields; the preview follows the image.
func (e *EditScreen) Edit(fn func(d *record.Draft)) {
	e.mu.Lock()
	fn(&e.form.Draft)
	e.form.Preview = imagecodec.Decode(e.form.Image)
	e.mu.Unlock()
}

// PickImage encodes the picked file right away. A canceled pick changes nothing.
func (e *EditScreen) PickImage(ctx context.Context, p picker.Picker) error {
	sel, err := p.Pick(ctx)
	if err != nil {
		e.notifier.Error("Could not select image", err)
		return err
	}
	if sel.Canceled || sel.Ref == "" {
		return nil
	}
	encoded, err := imagecodec.Encode(sel.Ref)
	if err != nil {
		e.notifier.Error("Could not read image", err)
		return err
	}
	e.Edit(func(d *record.Draft) { d.Image = encoded })
	return nil
}

// Submit overwrites every field of the record and navigates back; the list
// picks the change up on its focus refresh.
func (e *EditScreen) Submit(ctx context.Context) error {
	e.mu.Lock()
	loaded := e.loaded
	draft := e.form.Draft
	e.mu.Unlock()
	if !loaded {
		return ErrNotLoaded
	}

	p, err := record.Normalize(draft)
	if err != nil {
		e.notifier.Error("Please complete all fields", err)
		return err
	}
	if err := e.store.UpdateByID(ctx, e.id, p); err != nil {
		zap.L().Error("update product failed",
			zap.String("namespace", "workflow"),
			zap.String("id", e.id),
			zap.Error(err),
		)
		e.notifier.Error("Could not update product", err)
		return err
	}

	e.mu.Lock()
	torn := e.torn
	e.mu.Unlock()
	if torn {
		return nil
	}
	e.notifier.Success("Success", "Product updated")
	e.nav.Back(ctx)
	return nil
}

func (e *EditScreen) Unmount() {
	e.mu.Lock()
	e.torn = true
	e.mu.Unlock()
}
