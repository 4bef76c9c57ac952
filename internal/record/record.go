// Package record holds the single boundary where user-entered product drafts
// are checked and converted into persisted records, and back.
package record

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/imagecodec"
)

// Draft is an unvalidated product form. Every field is text, the way it
// arrives from form inputs. Image holds either a local file reference (create
// form, before encoding) or base64 text.
type Draft struct {
	Name        string `json:"nombre" form:"nombre"`
	Description string `json:"descripcion" form:"descripcion"`
	Quantity    string `json:"cantidad" form:"cantidad"`
	Price       string `json:"precio" form:"precio"`
	Image       string `json:"imagen" form:"imagen"`
}

// EditableDraft populates the edit form: Image keeps the base64 payload so the
// record can be re-sent whole, Preview is the displayable data URI.
type EditableDraft struct {
	Draft
	Preview string `json:"preview"`
}

// Validate reports the first field that is empty or does not parse to a
// non-negative number, in form order.
func Validate(d Draft) error {
	if strings.TrimSpace(d.Name) == "" {
		return domain.NewValidationError("nombre", "is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		return domain.NewValidationError("descripcion", "is required")
	}
	if strings.TrimSpace(d.Quantity) == "" {
		return domain.NewValidationError("cantidad", "is required")
	}
	if _, err := ParseQuantity(d.Quantity); err != nil {
		return err
	}
	if strings.TrimSpace(d.Price) == "" {
		return domain.NewValidationError("precio", "is required")
	}
	if _, err := ParsePrice(d.Price); err != nil {
		return err
	}
	if strings.TrimSpace(d.Image) == "" {
		return domain.NewValidationError("imagen", "is required")
	}
	return nil
}

// Normalize converts a validated draft whose image is already base64 into a
// record ready to persist. The id is left empty; the store assigns it.
func Normalize(d Draft) (domain.Product, error) {
	if err := Validate(d); err != nil {
		return domain.Product{}, err
	}
	qty, _ := ParseQuantity(d.Quantity)
	price, _ := ParsePrice(d.Price)
	image := strings.TrimSpace(d.Image)
	if !imagecodec.Valid(image) {
		return domain.Product{}, domain.NewValidationError("imagen", "must be base64 encoded")
	}
	return domain.Product{
		Name:        strings.TrimSpace(d.Name),
		Description: strings.TrimSpace(d.Description),
		Quantity:    qty,
		Price:       price,
		Image:       image,
	}, nil
}

// Denormalize turns a record back into display strings for the edit form.
func Denormalize(p domain.Product) EditableDraft {
	return EditableDraft{
		Draft: Draft{
			Name:        p.Name,
			Description: p.Description,
			Quantity:    strconv.Itoa(p.Quantity),
			Price:       FormatPrice(p.Price),
			Image:       p.Image,
		},
		Preview: imagecodec.Decode(p.Image),
	}
}

// ValidateRecord checks a record about to be written. Description may be empty
// at rest.
func ValidateRecord(p domain.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return domain.NewValidationError("nombre", "is required")
	}
	if p.Quantity < 0 {
		return domain.NewValidationError("cantidad", "must not be negative")
	}
	if p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0) {
		return domain.NewValidationError("precio", "must be a non-negative number")
	}
	if !imagecodec.Valid(p.Image) {
		return domain.NewValidationError("imagen", "must be base64 encoded")
	}
	return nil
}

// FormatPrice renders the shortest decimal text that parses back to p.
func FormatPrice(p float64) string {
	return decimal.NewFromFloat(p).String()
}

// ParseQuantity reads base-10 whole-number text, surrounding spaces allowed.
// "5.0" is accepted; "5.5" and negatives are not.
func ParseQuantity(s string) (int, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, domain.NewValidationError("cantidad", "must be a whole number")
	}
	if !d.IsInteger() {
		return 0, domain.NewValidationError("cantidad", "must be a whole number")
	}
	if d.IsNegative() {
		return 0, domain.NewValidationError("cantidad", "must not be negative")
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt32)) {
		return 0, domain.NewValidationError("cantidad", "is too large")
	}
	return int(d.IntPart()), nil
}

// ParsePrice reads non-negative decimal text.
func ParsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, domain.NewValidationError("precio", "must be a decimal number")
	}
	if d.IsNegative() {
		return 0, domain.NewValidationError("precio", "must not be negative")
	}
	f, _ := d.Float64()
	if math.IsInf(f, 0) {
		return 0, domain.NewValidationError("precio", "is too large")
	}
	return f, nil
}
