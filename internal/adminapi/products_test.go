package adminapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/bodega/config"
	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/imagecodec"
	"github.com/talkincode/bodega/internal/record"
	"github.com/talkincode/bodega/internal/store/memstore"
	"github.com/talkincode/bodega/internal/webserver"
)

func createChair(t *testing.T, e *testEnv) domain.Product {
	t.Helper()
	rec := e.do(http.MethodPost, "/api/products", chairPayload())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p domain.Product
	decode(t, rec, &p)
	require.NotEmpty(t, p.ID)
	return p
}

func TestCreateProductJSON(t *testing.T) {
	e := setupTest(t, nil)
	p := createChair(t, e)
	assert.Equal(t, "Chair", p.Name)
	assert.Equal(t, 5, p.Quantity)
	assert.Equal(t, 49.99, p.Price)

	stored, err := e.store.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p, *stored)
}

func TestCreateProductAcceptsDataURI(t *testing.T) {
	e := setupTest(t, nil)
	body := chairPayload()
	body["imagen"] = imagecodec.Decode(pixel)
	rec := e.do(http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var p domain.Product
	decode(t, rec, &p)
	assert.Equal(t, pixel, p.Image)
}

func TestCreateProductMissingField(t *testing.T) {
	e := setupTest(t, nil)
	body := chairPayload()
	body["descripcion"] = "  "
	rec := e.do(http.MethodPost, "/api/products", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode(t, rec, nil)
	assert.Equal(t, "INVALID_REQUEST", resp.Code)
	assert.Equal(t, map[string]interface{}{"field": "descripcion", "reason": "is required"}, resp.Error)

	items, err := e.store.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCreateProductRejectsFilePath(t *testing.T) {
	e := setupTest(t, nil)
	body := chairPayload()
	body["imagen"] = "/tmp/photo.png"
	rec := e.do(http.MethodPost, "/api/products", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductMultipart(t *testing.T) {
	e := setupTest(t, nil)
	buf, ctype := multipartBody(t, map[string]string{
		"nombre": "Lamp", "descripcion": "Desk", "cantidad": "2", "precio": "15.5",
	}, []byte("lamp-photo"))
	req := httptest.NewRequest(http.MethodPost, "/api/products", buf)
	req.Header.Set(echo.HeaderContentType, ctype)
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var p domain.Product
	decode(t, rec, &p)
	assert.Equal(t, imagecodec.EncodeBytes([]byte("lamp-photo")), p.Image)
	assert.Equal(t, 2, p.Quantity)
}

func TestCreateProductStoreFailure(t *testing.T) {
	e := setupTest(t, nil)
	e.app.OverrideStore(brokenStore{memstore.New(nil)})
	rec := e.do(http.MethodPost, "/api/products", chairPayload())
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "DATABASE_ERROR", decode(t, rec, nil).Code)
}

func TestGetProductForm(t *testing.T) {
	e := setupTest(t, nil)
	p := createChair(t, e)

	rec := e.do(http.MethodGet, "/api/products/"+p.ID+"/form", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var form record.EditableDraft
	decode(t, rec, &form)
	assert.Equal(t, "5", form.Quantity)
	assert.Equal(t, "49.99", form.Price)
	assert.Equal(t, imagecodec.Decode(pixel), form.Preview)
}

func TestUpdateProductOverwrites(t *testing.T) {
	e := setupTest(t, nil)
	p := createChair(t, e)

	body := chairPayload()
	body["cantidad"] = "3"
	rec := e.do(http.MethodPut, "/api/products/"+p.ID, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := e.store.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	want := p
	want.Quantity = 3
	assert.Equal(t, want, *stored)

	rec = e.do(http.MethodPut, "/api/products/missing", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProductNeedsConfirmation(t *testing.T) {
	e := setupTest(t, nil)
	p := createChair(t, e)

	rec := e.do(http.MethodDelete, "/api/products/"+p.ID, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFIRMATION_REQUIRED", decode(t, rec, nil).Code)
	_, err := e.store.GetByID(context.Background(), p.ID)
	require.NoError(t, err)

	rec = e.do(http.MethodDelete, "/api/products/"+p.ID+"?confirm=true", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, err = e.store.GetByID(context.Background(), p.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestListProductsPaging(t *testing.T) {
	e := setupTest(t, nil)
	for _, name := range []string{"Chair", "Lamp", "Armchair"} {
		body := chairPayload()
		body["nombre"] = name
		require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/products", body).Code)
	}

	var page struct {
		Items    []domain.Product `json:"items"`
		Total    int64            `json:"total"`
		Page     int              `json:"page"`
		PageSize int              `json:"pageSize"`
	}
	rec := e.do(http.MethodGet, "/api/products?page=2&perPage=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &page)
	assert.Equal(t, int64(3), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Armchair", page.Items[0].Name)

	rec = e.do(http.MethodGet, "/api/products?q=CHAIR", nil)
	decode(t, rec, &page)
	assert.Equal(t, int64(2), page.Total)

	rec = e.do(http.MethodGet, "/api/products?page=9", nil)
	decode(t, rec, &page)
	assert.Empty(t, page.Items)
}

func TestListProductsStoreFailure(t *testing.T) {
	e := setupTest(t, nil)
	e.app.OverrideStore(brokenStore{memstore.New(nil)})
	rec := e.do(http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProductsRequireTokenWhenSecretSet(t *testing.T) {
	e := setupTest(t, func(cfg *config.AppConfig) { cfg.Web.Secret = "s3cret" })
	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/products", nil).Code)

	token, err := webserver.IssueToken("s3cret", "ops", time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProductChangesReachStatisticsScreen(t *testing.T) {
	e := setupTest(t, nil)
	p := createChair(t, e)
	stats := e.app.Stats()
	require.Len(t, stats.Products(), 1)

	body := chairPayload()
	body["cantidad"] = "3"
	require.Equal(t, http.StatusOK, e.do(http.MethodPut, "/api/products/"+p.ID, body).Code)
	items := stats.Products()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)

	require.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/api/products/"+p.ID+"?confirm=true", nil).Code)
	assert.Empty(t, stats.Products())
}
