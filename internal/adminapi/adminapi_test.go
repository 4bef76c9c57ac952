package adminapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/bodega/config"
	"github.com/talkincode/bodega/internal/app"
	"github.com/talkincode/bodega/internal/domain"
	"github.com/talkincode/bodega/internal/report"
	"github.com/talkincode/bodega/internal/store"
	"github.com/talkincode/bodega/internal/store/memstore"
	"github.com/talkincode/bodega/internal/webserver"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type fakeSharer struct {
	to        []string
	artifacts []report.Artifact
	err       error
}

func (f *fakeSharer) Share(_ context.Context, _ string, artifacts []report.Artifact, to ...string) error {
	if f.err != nil {
		return f.err
	}
	f.to = to
	f.artifacts = artifacts
	return nil
}

// brokenStore fails every call
type brokenStore struct{ *memstore.Store }

func (brokenStore) ListAll(context.Context) ([]domain.Product, error) {
	return nil, domain.WrapStore("list", errors.New("connection refused"))
}

func (brokenStore) Insert(context.Context, domain.Product) (string, error) {
	return "", domain.WrapStore("insert", errors.New("connection refused"))
}

type testEnv struct {
	app    *app.Application
	store  store.ProductStore
	sharer *fakeSharer
	server *webserver.WebServer
}

func setupTest(t *testing.T, mutate func(cfg *config.AppConfig)) *testEnv {
	t.Helper()
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	if mutate != nil {
		mutate(cfg)
	}
	a := app.NewApplication(cfg)
	s := memstore.New(nil)
	a.OverrideStore(s)
	sharer := &fakeSharer{}
	a.OverrideSharer(sharer)

	Init()
	return &testEnv{app: a, store: s, sharer: sharer, server: webserver.New(cfg.Web, a)}
}

func (e *testEnv) do(method, target string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) Response {
	t.Helper()
	var raw struct {
		Code  string              `json:"code"`
		Msg   string              `json:"msg"`
		Data  jsoniter.RawMessage `json:"data"`
		Error interface{}         `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw), rec.Body.String())
	if data != nil && len(raw.Data) > 0 {
		require.NoError(t, json.Unmarshal(raw.Data, data))
	}
	return Response{Code: raw.Code, Msg: raw.Msg, Error: raw.Error}
}

const pixel = "iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func chairPayload() map[string]interface{} {
	return map[string]interface{}{
		"nombre":      "Chair",
		"descripcion": "Wood",
		"cantidad":    5,
		"precio":      "49.99",
		"imagen":      pixel,
	}
}

func multipartBody(t *testing.T, fields map[string]string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if image != nil {
		fw, err := w.CreateFormFile("imagen", "photo.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestEnvelopeFailHelpers(t *testing.T) {
	e := setupTest(t, nil)
	rec := e.do(http.MethodGet, "/api/products/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode(t, rec, nil)
	require.Equal(t, "NOT_FOUND", resp.Code)
	require.True(t, strings.Contains(rec.Body.String(), "nope"))
}
