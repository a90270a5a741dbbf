package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/tripplanner/internal/domain/dto"
)

func (c *Controller) ListHistory(ctx echo.Context) error {
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	entries, err := c.history.List(ctx.Request().Context(), sess.Username)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (c *Controller) SaveHistory(ctx echo.Context) error {
	var req dto.SnapshotRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.history.Save(ctx.Request().Context(), sess, req.Name); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusCreated)
}

func (c *Controller) RestoreHistory(ctx echo.Context) error {
	name, err := stringParam(ctx, "name")
	if err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.history.Restore(ctx.Request().Context(), sess, name); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data)
}

func (c *Controller) DeleteHistory(ctx echo.Context) error {
	name, err := stringParam(ctx, "name")
	if err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.history.Delete(ctx.Request().Context(), sess.Username, name); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
