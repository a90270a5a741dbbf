package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/domain/dto"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/service/itinerary"
)

func (c *Controller) GetSession(ctx echo.Context) error {
	sess, err := session(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data)
}

func (c *Controller) SetPage(ctx echo.Context) error {
	var req dto.PageRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.itinerary.SetPage(ctx.Request().Context(), sess, req.Page); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data)
}

func (c *Controller) CreateTrip(ctx echo.Context) error {
	var req dto.CreateTripRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	err = c.itinerary.CreateTrip(ctx.Request().Context(), sess, itinerary.TripParams{
		Name:         req.Name,
		BudgetText:   req.Budget.String(),
		PreSpentText: req.PreSpent.String(),
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess.Data.TripInfo)
}

func (c *Controller) UpdateBudget(ctx echo.Context) error {
	var req dto.UpdateBudgetRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.itinerary.UpdateBudget(ctx.Request().Context(), sess, req.Budget.String(), req.PreSpent.String()); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c.itinerary.Summary(sess))
}

func (c *Controller) GetSummary(ctx echo.Context) error {
	sess, err := session(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, c.itinerary.Summary(sess))
}

func axis(answer *int) float64 {
	if answer == nil {
		return domain.DefaultAxisValue
	}
	return domain.AxisFromScale(*answer)
}

func (c *Controller) Recommend(ctx echo.Context) error {
	var req dto.PreferencesRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	prefs := domain.PreferenceVector{
		Nature:   axis(req.Nature),
		History:  axis(req.History),
		Trend:    axis(req.Trend),
		Fun:      axis(req.Fun),
		Urban:    axis(req.Urban),
		Selected: req.Tags,
	}
	candidates := c.recommend.Recommend(c.catalog.POIs(), prefs, sess.Data.TripInfo.Days)

	if err := c.itinerary.SaveRecommendations(ctx.Request().Context(), sess, prefs, candidates); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, candidates)
}

func (c *Controller) GetRecommendations(ctx echo.Context) error {
	sess, err := session(ctx)
	if err != nil {
		return err
	}
	if sess.Data.Preferences == nil {
		return constants.ErrNoRecommendations
	}
	res := sess.Data.Recommendations
	if res == nil {
		res = []domain.Candidate{}
	}
	return ctx.JSON(http.StatusOK, res)
}
