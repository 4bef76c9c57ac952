package adminapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/talkincode/bodega/internal/domain"
)

// Response is the envelope every admin API call answers with
type Response struct {
	Code  string      `json:"code"`
	Msg   string      `json:"msg"`
	Data  interface{} `json:"data,omitempty"`
	Error interface{} `json:"error,omitempty"`
}

type PageResult struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"pageSize"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Code: "OK", Msg: "success", Data: data})
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	return c.JSON(status, Response{Code: code, Msg: msg, Error: detail})
}

func paged(c echo.Context, items interface{}, total int64, page, pageSize int) error {
	return ok(c, PageResult{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// parsePagination reads page and perPage, falling back to pageSize
func parsePagination(c echo.Context) (int, int) {
	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	pageSize := 20
	raw := c.QueryParam("perPage")
	if raw == "" {
		raw = c.QueryParam("pageSize")
	}
	if ps, err := strconv.Atoi(raw); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// failErr maps the error taxonomy onto status codes
func failErr(c echo.Context, msg string, err error) error {
	switch {
	case domain.IsValidation(err):
		var detail interface{} = err.Error()
		if verr, found := domain.AsValidation(err); found {
			detail = map[string]string{"field": verr.Field, "reason": verr.Reason}
		}
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", msg, detail)
	case domain.IsNotFound(err):
		return fail(c, http.StatusNotFound, "NOT_FOUND", msg, err.Error())
	case domain.IsIO(err):
		return fail(c, http.StatusUnprocessableEntity, "IMAGE_UNREADABLE", msg, err.Error())
	case domain.IsPermission(err):
		return fail(c, http.StatusForbidden, "PERMISSION_DENIED", msg, err.Error())
	default:
		zap.L().Error(msg, zap.String("namespace", "adminapi"), zap.Error(err))
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", msg, err.Error())
	}
}
