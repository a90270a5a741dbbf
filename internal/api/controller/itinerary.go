package controller

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/ougirez/tripplanner/internal/domain"
	"github.com/ougirez/tripplanner/internal/domain/dto"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/service/itinerary"
)

type moveResponse struct {
	Moved     bool                   `json:"moved"`
	Itinerary []domain.ItineraryItem `json:"itinerary"`
}

type nightMarketResponse struct {
	Warning   string                 `json:"warning,omitempty"`
	Itinerary []domain.ItineraryItem `json:"itinerary"`
}

func (c *Controller) GetItinerary(ctx echo.Context) error {
	sess, err := session(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data.Itinerary)
}

func (c *Controller) AddItem(ctx echo.Context) error {
	var req dto.AddItemRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	item, err := domain.NewItem(req.Name, req.Day, req.Start, itinerary.DefaultDuration, req.Note,
		req.Latitude, req.Longitude, 0, "")
	if err != nil {
		return fmt.Errorf("%s: %w", err.Error(), constants.ErrValidation)
	}
	if req.End != "" {
		if err := domain.ValidateClock(req.End); err != nil {
			return fmt.Errorf("%s: %w", err.Error(), constants.ErrValidation)
		}
		item.End = req.End
	}
	for _, sub := range req.SubBudgets {
		category := sub.Category
		if category == "" {
			category = domain.BudgetOther
		}
		if !domain.IsBudgetCategory(category) {
			return fmt.Errorf("budget category %q: %w", category, constants.ErrValidation)
		}
		item.AddSubBudget(domain.SubBudget{Category: category, Cost: sub.Cost, Note: sub.Note})
	}

	if err := c.itinerary.Add(ctx.Request().Context(), sess, item); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess.Data.Itinerary)
}

func (c *Controller) AddManual(ctx echo.Context) error {
	var req dto.ManualItemRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	err = c.itinerary.AddManual(ctx.Request().Context(), sess, itinerary.ManualEntry{
		Name:     req.Name,
		Address:  req.Address,
		Day:      req.Day,
		Start:    req.Start,
		Cost:     req.Cost,
		Category: req.Category,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess.Data.Itinerary)
}

func (c *Controller) AddFromRecommendation(ctx echo.Context) error {
	var req dto.AddFromSourceRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	cand, ok := c.itinerary.FindRecommendation(sess, req.ID)
	if !ok {
		return fmt.Errorf("recommendation %q: %w", req.ID, constants.ErrNotFound)
	}
	if err := c.itinerary.AddFromCandidate(ctx.Request().Context(), sess, cand, req.Day, req.Start); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess.Data.Itinerary)
}

func (c *Controller) AddFromPOI(ctx echo.Context) error {
	var req dto.AddFromSourceRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	poi, ok := c.catalog.FindPOI(req.ID)
	if !ok {
		return fmt.Errorf("poi %q: %w", req.ID, constants.ErrNotFound)
	}
	if err := c.itinerary.AddFromPOI(ctx.Request().Context(), sess, poi, req.Day, req.Start); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess.Data.Itinerary)
}

func (c *Controller) AddFromNightMarket(ctx echo.Context) error {
	var req dto.AddFromSourceRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	market, ok := c.catalog.FindNightMarket(req.Name)
	if !ok {
		return fmt.Errorf("night market %q: %w", req.Name, constants.ErrNotFound)
	}
	warning, err := c.itinerary.AddNightMarket(ctx.Request().Context(), sess, market, req.Day, req.Start)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, nightMarketResponse{Warning: warning, Itinerary: sess.Data.Itinerary})
}

func (c *Controller) AddFromFavorite(ctx echo.Context) error {
	var req dto.AddFromSourceRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	if req.Index == nil {
		return fmt.Errorf("missing favorite index: %w", constants.ErrValidation)
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.itinerary.AddFromFavorite(ctx.Request().Context(), sess, *req.Index, req.Day, req.Start); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess.Data.Itinerary)
}

func (c *Controller) UpdateItem(ctx echo.Context) error {
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	var req dto.UpdateItemRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	err = c.itinerary.UpdateItem(ctx.Request().Context(), sess, index, itinerary.ItemUpdate{
		Name:  req.Name,
		Day:   req.Day,
		Start: req.Start,
		End:   req.End,
		Note:  req.Note,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data.Itinerary)
}

func (c *Controller) DeleteItem(ctx echo.Context) error {
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.itinerary.Delete(ctx.Request().Context(), sess, index); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data.Itinerary)
}

func (c *Controller) MoveItem(ctx echo.Context) error {
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	var req dto.MoveItemRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	moved, err := c.itinerary.Move(ctx.Request().Context(), sess, index, req.Direction)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, moveResponse{Moved: moved, Itinerary: sess.Data.Itinerary})
}

func (c *Controller) ReassignDay(ctx echo.Context) error {
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	var req dto.ReassignDayRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.itinerary.ReassignDay(ctx.Request().Context(), sess, index, req.Day); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data.Itinerary)
}

func (c *Controller) AddSubBudget(ctx echo.Context) error {
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	var req dto.SubBudgetRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.itinerary.AddSubBudget(ctx.Request().Context(), sess, index, req.Category, req.Cost.String(), stringValue(req.Note)); err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sess.Data.Itinerary[index])
}

func (c *Controller) EditSubBudget(ctx echo.Context) error {
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	sub, err := intParam(ctx, "sub")
	if err != nil {
		return err
	}
	var req dto.SubBudgetRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.itinerary.EditSubBudget(ctx.Request().Context(), sess, index, sub, req.Category, req.Cost.String(), req.Note); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data.Itinerary[index])
}

func (c *Controller) DeleteSubBudget(ctx echo.Context) error {
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	sub, err := intParam(ctx, "sub")
	if err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.itinerary.DeleteSubBudget(ctx.Request().Context(), sess, index, sub); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data.Itinerary[index])
}
