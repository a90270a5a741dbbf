package api

import (
	"github.com/labstack/echo/v4"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
	"github.com/ougirez/tripplanner/internal/pkg/utils"
)

// AuthMiddleware resolves the auth cookie to a user and loads that user's
// session for the handler.
func (svc *APIService) AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		cookie, err := ctx.Cookie(constants.CookieKeyAuthToken)
		if err != nil {
			return constants.ErrMissingAuthCookie
		}

		token, err := utils.ParseAuthToken(cookie.Value)
		if err != nil {
			return err
		}

		reqCtx := logger.WithFields(ctx.Request().Context(), constants.CtxKeyUsername, token.Username)
		ctx.SetRequest(ctx.Request().WithContext(reqCtx))

		sess, err := svc.authService.LoadSession(reqCtx, token.Username)
		if err != nil {
			return err
		}

		ctx.Set(constants.CtxKeyUsername, token.Username)
		ctx.Set(constants.CtxKeySession, sess)

		return next(ctx)
	}
}

// RequestLoggerMiddleware tags the request context with the request id and
// logs each request once it completes.
func (svc *APIService) RequestLoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		id := ctx.Response().Header().Get(echo.HeaderXRequestID)
		reqCtx := logger.WithFields(ctx.Request().Context(), constants.CtxKeyRequestID, id)
		ctx.SetRequest(ctx.Request().WithContext(reqCtx))

		err := next(ctx)
		if err != nil {
			ctx.Error(err)
		}

		req := ctx.Request()
		logger.Infof(req.Context(), "%s %s -> %d", req.Method, req.URL.Path, ctx.Response().Status)
		return nil
	}
}
