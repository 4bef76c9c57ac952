package webserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/talkincode/bodega/config"
)

const (
	ApiPrefix     = "/api"
	AppContextKey = "appctx"
)

type route struct {
	method  string
	path    string
	handler echo.HandlerFunc
	mws     []echo.MiddlewareFunc
}

var (
	routesMu sync.Mutex
	routes   []route
)

func register(method, path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	routesMu.Lock()
	defer routesMu.Unlock()
	routes = append(routes, route{method: method, path: path, handler: h, mws: m})
}

func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	register(http.MethodGet, path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	register(http.MethodPost, path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	register(http.MethodPut, path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	register(http.MethodDelete, path, h, m...)
}

// WebServer is the HTTP surface; every registered Api route is mounted under /api.
type WebServer struct {
	cfg  config.WebConfig
	root *echo.Echo
	api  *echo.Group
}

// New builds the echo instance and mounts the registered routes. appctx is
// made available to handlers under AppContextKey.
func New(cfg config.WebConfig, appctx interface{}) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(RequestID())
	e.Use(AccessLog())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AppContextKey, appctx)
			return next(c)
		}
	})
	e.Use(middleware.BodyLimit("16M"))

	api := e.Group(ApiPrefix)
	if cfg.Secret != "" {
		api.Use(echojwt.WithConfig(echojwt.Config{
			SigningKey: []byte(cfg.Secret),
			ErrorHandler: func(c echo.Context, err error) error {
				return c.JSON(http.StatusUnauthorized, map[string]interface{}{
					"code": "UNAUTHORIZED",
					"msg":  "Missing or invalid token",
				})
			},
		}))
	}

	routesMu.Lock()
	for _, r := range routes {
		api.Add(r.method, r.path, r.handler, r.mws...)
	}
	routesMu.Unlock()

	return &WebServer{cfg: cfg, root: e, api: api}
}

func (s *WebServer) Handler() http.Handler {
	return s.root
}

func (s *WebServer) Addr() string {
	return fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
}

// Start serves until Shutdown is called.
func (s *WebServer) Start() error {
	zap.L().Info("web server listening",
		zap.String("namespace", "webserver"),
		zap.String("addr", s.Addr()),
		zap.Bool("auth", s.cfg.Secret != ""),
	)
	err := s.root.Start(s.Addr())
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *WebServer) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.root.Shutdown(ctx)
}
