package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/tripplanner/internal/domain/dto"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/spf13/viper"
)

func (c *Controller) Register(ctx echo.Context) error {
	var req dto.CredentialsRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	if err := c.auth.Register(ctx.Request().Context(), req.Username, req.Password); err != nil {
		return err
	}

	return ctx.NoContent(http.StatusCreated)
}

func (c *Controller) Login(ctx echo.Context) error {
	var req dto.CredentialsRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	res, err := c.auth.Login(ctx.Request().Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	ttl := viper.GetDuration(constants.ViperTokenTTLKey)
	ctx.SetCookie(&http.Cookie{
		Name:     constants.CookieKeyAuthToken,
		Value:    res.AuthToken,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return ctx.JSON(http.StatusOK, res.Session.Data)
}

func (c *Controller) Logout(ctx echo.Context) error {
	ctx.SetCookie(&http.Cookie{
		Name:     constants.CookieKeyAuthToken,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	return ctx.NoContent(http.StatusNoContent)
}

func (c *Controller) ChangePassword(ctx echo.Context) error {
	var req dto.ChangePasswordRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.auth.ChangePassword(ctx.Request().Context(), sess.Username, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
