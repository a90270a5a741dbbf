package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
)

// requestBinder decodes JSON bodies with sonic and leaves path and query
// parameters to echo's default binder.
type requestBinder struct {
	echo.DefaultBinder
}

func NewBinder() echo.Binder {
	return &requestBinder{}
}

func (b *requestBinder) Bind(i interface{}, c echo.Context) error {
	if err := b.BindPathParams(c, i); err != nil {
		return fmt.Errorf("%s: %w", err.Error(), constants.ErrValidation)
	}

	req := c.Request()
	if req.Method == http.MethodGet || req.Method == http.MethodDelete || req.Method == http.MethodHead {
		if err := b.BindQueryParams(c, i); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), constants.ErrValidation)
		}
		return nil
	}

	if req.Body == nil {
		return nil
	}
	if !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := b.BindBody(c, i); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), constants.ErrValidation)
		}
		return nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(body, i); err != nil {
		return fmt.Errorf("decode body: %s: %w", err.Error(), constants.ErrValidation)
	}
	return nil
}
