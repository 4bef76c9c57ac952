package store

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/record"
)

// Document field names of the persisted layout.
const (
	FieldName        = "nombre"
	FieldDescription = "descripcion"
	FieldQuantity    = "cantidad"
	FieldPrice       = "precio"
	FieldImage       = "imagen"
)

// ToDocument renders a record as the persisted field map, without its id.
func ToDocument(p domain.Product) map[string]interface{} {
	return map[string]interface{}{
		FieldName:        p.Name,
		FieldDescription: p.Description,
		FieldQuantity:    p.Quantity,
		FieldPrice:       p.Price,
		FieldImage:       p.Image,
	}
}

// FromDocument decodes a stored document. cantidad and precio may be stored as
// text or numbers; older records were written with text fields.
func FromDocument(id string, doc map[string]interface{}) (domain.Product, error) {
	var p domain.Product
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       numericText,
		WeaklyTypedInput: true,
		Result:           &p,
		TagName:          "mapstructure",
	})
	if err != nil {
		return p, err
	}
	if err := dec.Decode(doc); err != nil {
		return p, errors.Wrapf(err, "decode document %s", id)
	}
	p.ID = id
	return p, nil
}

// numericText parses text cantidad and precio in base 10, the way the form
// wrote them, instead of the weak decoder's base-prefix parsing.
func numericText(from, to reflect.Type, data interface{}) (interface{}, error) {
	text, ok := data.(string)
	if !ok || from.Kind() != reflect.String {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int:
		return record.ParseQuantity(text)
	case reflect.Float64:
		return record.ParsePrice(text)
	}
	return data, nil
}
