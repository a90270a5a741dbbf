package controller

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/domain/dto"
	"github.com/ougirez/tripplanner/internal/service/catalog"
)

type poiPage struct {
	Items     []domain.PointOfInterest `json:"items"`
	Truncated bool                     `json:"truncated"`
}

func (c *Controller) FilterPOIs(ctx echo.Context) error {
	var req dto.POIFilterRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}

	items, truncated := c.catalog.Filter(catalog.FilterOpts{
		Districts:  req.Districts,
		Categories: req.Categories,
		Keyword:    req.Keyword,
		Limit:      req.Limit,
	})
	return ctx.JSON(http.StatusOK, poiPage{Items: items, Truncated: truncated})
}

func (c *Controller) GetDistricts(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.catalog.Districts())
}

func (c *Controller) GetCategories(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, c.catalog.Categories())
}

type nightMarketView struct {
	domain.NightMarket
	OpenDays string `json:"open_days"`
}

// GetNightMarkets lists every market, or with ?day=N only those open on
// the weekday of trip day N.
func (c *Controller) GetNightMarkets(ctx echo.Context) error {
	var req dto.NightMarketRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	var weekday *time.Weekday
	if req.Day > 0 {
		if date, err := sess.Data.TripInfo.DateOf(req.Day); err == nil {
			wd := date.Weekday()
			weekday = &wd
		}
	}

	markets := c.catalog.NightMarkets(weekday)
	res := make([]nightMarketView, 0, len(markets))
	for i := range markets {
		res = append(res, nightMarketView{NightMarket: markets[i], OpenDays: markets[i].FormatDays()})
	}
	return ctx.JSON(http.StatusOK, res)
}
