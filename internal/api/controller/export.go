package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func (c *Controller) ExportCSV(ctx echo.Context) error {
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	data, err := c.export.CSV(sess.Data)
	if err != nil {
		return err
	}
	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="trip.csv"`)
	return ctx.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

func (c *Controller) ExportTXT(ctx echo.Context) error {
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="trip.txt"`)
	return ctx.Blob(http.StatusOK, "text/plain; charset=utf-8", c.export.TXT(sess.Data))
}
