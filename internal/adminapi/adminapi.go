package adminapi

import (
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/bodega/internal/app"
	"github.com/talkincode/bodega/internal/webserver"
)

var initOnce sync.Once

// Init registers every admin API route with the web server registry.
func Init() {
	initOnce.Do(func() {
		registerProductRoutes()
		registerReportRoutes()
	})
}

func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}
