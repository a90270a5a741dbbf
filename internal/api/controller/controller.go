package controller

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/service/auth"
	"github.com/ougirez/tripplanner/internal/service/catalog"
	"github.com/ougirez/tripplanner/internal/service/export"
	"github.com/ougirez/tripplanner/internal/service/history"
	"github.com/ougirez/tripplanner/internal/service/itinerary"
	"github.com/ougirez/tripplanner/internal/service/recommend"
)

type Controller struct {
	auth      *auth.Service
	catalog   *catalog.Service
	recommend *recommend.Service
	itinerary *itinerary.Service
	history   *history.Service
	export    *export.Service
}

func NewController(
	authService *auth.Service,
	catalogService *catalog.Service,
	recommendService *recommend.Service,
	itineraryService *itinerary.Service,
	historyService *history.Service,
	exportService *export.Service,
) *Controller {
	return &Controller{
		auth:      authService,
		catalog:   catalogService,
		recommend: recommendService,
		itinerary: itineraryService,
		history:   historyService,
		export:    exportService,
	}
}

// session returns the session loaded by the auth middleware.
func session(ctx echo.Context) (*domain.Session, error) {
	sess, ok := ctx.Get(constants.CtxKeySession).(*domain.Session)
	if !ok || sess == nil {
		return nil, constants.ErrUnauthorized
	}
	return sess, nil
}

func bind(ctx echo.Context, req interface{}) error {
	if err := ctx.Bind(req); err != nil {
		return err
	}
	return ctx.Validate(req)
}

func intParam(ctx echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, fmt.Errorf("path param %s=%q: %w", name, ctx.Param(name), constants.ErrValidation)
	}
	return v, nil
}

// stringParam unescapes a path param; snapshot names are often non-ASCII.
func stringParam(ctx echo.Context, name string) (string, error) {
	v, err := url.PathUnescape(ctx.Param(name))
	if err != nil || v == "" {
		return "", fmt.Errorf("path param %s=%q: %w", name, ctx.Param(name), constants.ErrValidation)
	}
	return v, nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
