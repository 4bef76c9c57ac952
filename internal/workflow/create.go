package workflow

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/talkincode/bodega/internal/imagecodec"
	"github.com/talkincode/bodega/internal/picker"
	"github.com/talkincode/bodega/internal/record"
	"github.com/talkincode/bodega/internal/store"
)

// CreateForm is the modal add-product form. Its draft image is a local file
// reference until submission encodes it, unless it was attached already
// encoded.
type CreateForm struct {
	store    store.ProductStore
	notifier Notifier
	list     *ListScreen

	mu      sync.Mutex
	open    bool
	draft   record.Draft
	encoded bool
}

// NewCreateForm builds the form; list, when set, is refreshed after a create.
func NewCreateForm(s store.ProductStore, n Notifier, list *ListScreen) *CreateForm {
	if n == nil {
		n = LogNotifier{}
	}
	return &CreateForm{store: s, notifier: n, list: list}
}

func (f *CreateForm) Open() {
	f.mu.Lock()
	f.open = true
	f.mu.Unlock()
}

// Close hides the form and keeps whatever was typed.
func (f *CreateForm) Close() {
	f.mu.Lock()
	f.open = false
	f.mu.Unlock()
}

func (f *CreateForm) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *CreateForm) Draft() record.Draft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *CreateForm) Edit(fn func(d *record.Draft)) {
	f.mu.Lock()
	image := f.draft.Image
	fn(&f.draft)
	if f.draft.Image != image {
		f.encoded = false
	}
	f.mu.Unlock()
}

// AttachImage sets a base64 payload, such as an uploaded file, as the image.
// Submit writes it as is instead of reading a file.
func (f *CreateForm) AttachImage(payload string) {
	f.mu.Lock()
	f.draft.Image = payload
	f.encoded = true
	f.mu.Unlock()
}

// PickImage stores the picked file reference. A canceled pick changes nothing.
func (f *CreateForm) PickImage(ctx context.Context, p picker.Picker) error {
	sel, err := p.Pick(ctx)
	if err != nil {
		f.notifier.Error("Could not select image", err)
		return err
	}
	if sel.Canceled || sel.Ref == "" {
		zap.L().Debug("image selection canceled", zap.String("namespace", "workflow"))
		return nil
	}
	f.Edit(func(d *record.Draft) { d.Image = sel.Ref })
	return nil
}

// Submit validates, encodes the image, inserts the record with one store call,
// then closes and clears the form and refreshes the list. Any failure leaves
// the form open with its draft intact.
func (f *CreateForm) Submit(ctx context.Context) (string, error) {
	f.mu.Lock()
	draft, encoded := f.draft, f.encoded
	f.mu.Unlock()
	if err := record.Validate(draft); err != nil {
		f.notifier.Error("Please complete all fields", err)
		return "", err
	}

	if !encoded {
		payload, err := imagecodec.Encode(draft.Image)
		if err != nil {
			f.fail(err)
			return "", err
		}
		draft.Image = payload
	}

	p, err := record.Normalize(draft)
	if err != nil {
		f.fail(err)
		return "", err
	}

	id, err := f.store.Insert(ctx, p)
	if err != nil {
		f.fail(err)
		return "", err
	}

	f.mu.Lock()
	f.open = false
	f.draft = record.Draft{}
	f.encoded = false
	f.mu.Unlock()

	zap.L().Info("product created",
		zap.String("namespace", "workflow"),
		zap.String("id", id),
		zap.String("name", p.Name),
	)
	if f.list != nil {
		_ = f.list.Refresh(ctx)
	}
	return id, nil
}

func (f *CreateForm) fail(err error) {
	zap.L().Error("create product failed", zap.String("namespace", "workflow"), zap.Error(err))
	f.notifier.Error("There was a problem adding the product", err)
}

