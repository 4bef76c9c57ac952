package adminapi

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/bodega/internal/report"
	"github.com/talkincode/bodega/internal/webserver"
)

type sharePayload struct {
	To      []string `json:"to"`
	Formats []string `json:"formats"`
	Subject string   `json:"subject"`
}

func registerReportRoutes() {
	webserver.ApiGET("/reports/chart.png", getReportChart)
	webserver.ApiGET("/reports/summary", getReportSummary)
	webserver.ApiGET("/reports/export", exportReport)
	webserver.ApiPOST("/reports/share", shareReport)
	webserver.ApiPOST("/reports/snapshot", triggerSnapshot)
}

func prepareReport(c echo.Context) (*report.Report, error) {
	appCtx := GetAppContext(c)
	products, err := appCtx.StatsSnapshot(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return appCtx.Reports().Prepare(products)
}

func getReportChart(c echo.Context) error {
	r, err := prepareReport(c)
	if err != nil {
		return failErr(c, "Failed to build chart", err)
	}
	return c.Blob(http.StatusOK, "image/png", r.Chart)
}

// getReportSummary returns the chart slices, summary lines and stock figures
func getReportSummary(c echo.Context) error {
	r, err := prepareReport(c)
	if err != nil {
		return failErr(c, "Failed to build report", err)
	}
	return ok(c, r)
}

func exportReport(c echo.Context) error {
	format := strings.ToLower(strings.TrimSpace(c.QueryParam("format")))
	if format == "" {
		format = "html"
	}
	appCtx := GetAppContext(c)
	products, err := appCtx.StatsSnapshot(c.Request().Context())
	if err != nil {
		return failErr(c, "Failed to query products", err)
	}
	artifacts, err := appCtx.Reports().Build(c.Request().Context(), products, format)
	if err != nil {
		if _, unsupported := err.(*report.UnsupportedFormatError); unsupported {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unsupported report format", format)
		}
		return failErr(c, "Failed to build report", err)
	}
	a := artifacts[0]
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+a.Name+`"`)
	return c.Blob(http.StatusOK, a.ContentType, a.Data)
}

func shareReport(c echo.Context) error {
	var payload sharePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse request", err.Error())
	}
	appCtx := GetAppContext(c)
	products, err := appCtx.StatsSnapshot(c.Request().Context())
	if err != nil {
		return failErr(c, "Failed to query products", err)
	}
	artifacts, err := appCtx.Reports().Build(c.Request().Context(), products, payload.Formats...)
	if err != nil {
		if _, unsupported := err.(*report.UnsupportedFormatError); unsupported {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unsupported report format", payload.Formats)
		}
		return failErr(c, "Failed to build report", err)
	}
	subject := payload.Subject
	if subject == "" {
		subject = appCtx.Reports().Title
	}
	if err := appCtx.Sharer().Share(c.Request().Context(), subject, artifacts, payload.To...); err != nil {
		return fail(c, http.StatusBadGateway, "SHARE_FAILED", "Failed to share report", err.Error())
	}
	names := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		names = append(names, a.Name)
	}
	return ok(c, map[string]interface{}{"files": names})
}

// triggerSnapshot runs the scheduled report snapshot immediately
func triggerSnapshot(c echo.Context) error {
	paths, err := GetAppContext(c).SnapshotReport()
	if err != nil {
		return failErr(c, "Failed to write report snapshot", err)
	}
	return ok(c, map[string]interface{}{"files": paths})
}
