package adminapi

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"

	"github.com/talkincode/bodega/internal/app"
	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/imagecodec"
	"github.com/talkincode/bodega/internal/record"
	"github.com/talkincode/bodega/internal/webserver"
	"github.com/talkincode/bodega/internal/workflow"
)

// productPayload accepts cantidad and precio as text or numbers
type productPayload struct {
	Name        string      `json:"nombre"`
	Description string      `json:"descripcion"`
	Quantity    interface{} `json:"cantidad"`
	Price       interface{} `json:"precio"`
	Image       string      `json:"imagen"`
}

// registerProductRoutes registers product CRUD endpoints
func registerProductRoutes() {
	webserver.ApiGET("/products", listProducts)
	webserver.ApiGET("/products/:id", getProduct)
	webserver.ApiGET("/products/:id/form", getProductForm)
	webserver.ApiPOST("/products", createProduct)
	webserver.ApiPUT("/products/:id", updateProduct)
	webserver.ApiDELETE("/products/:id", deleteProduct)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	q := strings.ToLower(strings.TrimSpace(c.QueryParam("q")))

	rows, err := GetAppContext(c).Store().ListAll(c.Request().Context())
	if err != nil {
		return failErr(c, "Failed to query products", err)
	}
	if q != "" {
		filtered := rows[:0:0]
		for _, p := range rows {
			if strings.Contains(strings.ToLower(p.Name), q) {
				filtered = append(filtered, p)
			}
		}
		rows = filtered
	}

	total := len(rows)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return paged(c, rows[start:end], int64(total), page, pageSize)
}

func getProduct(c echo.Context) error {
	p, err := GetAppContext(c).Store().GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failErr(c, "Product not found", err)
	}
	return ok(c, p)
}

// getProductForm returns the record as edit-form strings with a preview URI
func getProductForm(c echo.Context) error {
	p, err := GetAppContext(c).Store().GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return failErr(c, "Product not found", err)
	}
	return ok(c, record.Denormalize(*p))
}

// createProduct submits the draft through an add-product form bound to the
// statistics screen, so the screen refreshes after the insert.
func createProduct(c echo.Context) error {
	draft, err := bindDraft(c)
	if err != nil {
		return failErr(c, "Unable to parse product", err)
	}
	appCtx := GetAppContext(c)
	form := workflow.NewCreateForm(appCtx.Store(), nil, appCtx.Stats())
	form.Open()
	form.Edit(func(d *record.Draft) { *d = draft })
	form.AttachImage(draft.Image)
	id, err := form.Submit(c.Request().Context())
	if err != nil {
		return failErr(c, "Failed to create product", err)
	}
	return storedProduct(c, id)
}

// updateProduct overwrites every field of the record, then returns to the
// statistics screen.
func updateProduct(c echo.Context) error {
	id := c.Param("id")
	draft, err := bindDraft(c)
	if err != nil {
		return failErr(c, "Unable to parse product", err)
	}
	appCtx := GetAppContext(c)
	ctx := c.Request().Context()
	screen := workflow.NewEditScreen(id, appCtx.Store(), nil,
		workflow.BusNavigator{Bus: appCtx.Bus(), Target: app.StatsScreen})
	defer screen.Unmount()
	if err := screen.Load(ctx); err != nil {
		return failErr(c, "Product not found", err)
	}
	screen.Edit(func(d *record.Draft) { *d = draft })
	if err := screen.Submit(ctx); err != nil {
		return failErr(c, "Failed to update product", err)
	}
	return storedProduct(c, id)
}

// deleteProduct deletes through the statistics screen, which drops the
// product from its snapshot. The confirm query flag answers the prompt.
func deleteProduct(c echo.Context) error {
	id := c.Param("id")
	confirm := workflow.ConfirmFunc(func(context.Context, string, string) bool {
		return cast.ToBool(c.QueryParam("confirm"))
	})
	deleted, err := GetAppContext(c).Stats().Delete(c.Request().Context(), id, confirm)
	if err != nil {
		return failErr(c, "Failed to delete product", err)
	}
	if !deleted {
		return fail(c, http.StatusConflict, "CONFIRMATION_REQUIRED",
			"Are you sure you want to delete this product?", map[string]string{"id": id})
	}
	return ok(c, map[string]interface{}{"id": id})
}

func storedProduct(c echo.Context, id string) error {
	p, err := GetAppContext(c).Store().GetByID(c.Request().Context(), id)
	if err != nil {
		return failErr(c, "Product not found", err)
	}
	return ok(c, p)
}

// bindDraft reads a draft from JSON, where imagen is base64 or a data URI,
// or from a multipart form carrying the imagen file.
func bindDraft(c echo.Context) (record.Draft, error) {
	var d record.Draft
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEMultipartForm) {
		d = record.Draft{
			Name:        c.FormValue("nombre"),
			Description: c.FormValue("descripcion"),
			Quantity:    c.FormValue("cantidad"),
			Price:       c.FormValue("precio"),
		}
		fh, err := c.FormFile("imagen")
		if err == http.ErrMissingFile {
			d.Image = c.FormValue("imagen")
			return d, nil
		}
		if err != nil {
			return d, domain.NewValidationError("imagen", err.Error())
		}
		src, err := fh.Open()
		if err != nil {
			return d, &domain.IOError{Path: fh.Filename, Err: err}
		}
		defer src.Close()
		data, err := io.ReadAll(src)
		if err != nil {
			return d, &domain.IOError{Path: fh.Filename, Err: err}
		}
		d.Image = imagecodec.EncodeBytes(data)
		return d, nil
	}

	var payload productPayload
	if err := c.Bind(&payload); err != nil {
		return d, domain.NewValidationError("body", err.Error())
	}
	d = record.Draft{
		Name:        payload.Name,
		Description: payload.Description,
		Quantity:    cast.ToString(payload.Quantity),
		Price:       cast.ToString(payload.Price),
		Image:       payload.Image,
	}
	if raw, err := imagecodec.Payload(strings.TrimSpace(d.Image)); err == nil {
		d.Image = imagecodec.EncodeBytes(raw)
	}
	return d, nil
}
