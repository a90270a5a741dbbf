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

type favoritesResponse struct {
	Added     bool              `json:"added"`
	Favorites []domain.Favorite `json:"favorites"`
}

func (c *Controller) GetFavorites(ctx echo.Context) error {
	sess, err := session(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data.Candidates)
}

func (c *Controller) AddFavorite(ctx echo.Context) error {
	var req dto.FavoriteRequest
	if err := bind(ctx, &req); err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	var fav domain.Favorite
	switch req.Source {
	case "recommendation":
		cand, ok := c.itinerary.FindRecommendation(sess, req.ID)
		if !ok {
			return fmt.Errorf("recommendation %q: %w", req.ID, constants.ErrNotFound)
		}
		fav = itinerary.FavoriteFromCandidate(cand)
	case "poi":
		poi, ok := c.catalog.FindPOI(req.ID)
		if !ok {
			return fmt.Errorf("poi %q: %w", req.ID, constants.ErrNotFound)
		}
		fav = itinerary.FavoriteFromPOI(poi)
	case "night_market":
		market, ok := c.catalog.FindNightMarket(req.Name)
		if !ok {
			return fmt.Errorf("night market %q: %w", req.Name, constants.ErrNotFound)
		}
		fav = itinerary.FavoriteFromNightMarket(market)
	}

	added, err := c.itinerary.AddFavorite(ctx.Request().Context(), sess, fav)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, favoritesResponse{Added: added, Favorites: sess.Data.Candidates})
}

func (c *Controller) RemoveFavorite(ctx echo.Context) error {
	index, err := intParam(ctx, "index")
	if err != nil {
		return err
	}
	sess, err := session(ctx)
	if err != nil {
		return err
	}

	if err := c.itinerary.RemoveFavorite(ctx.Request().Context(), sess, index); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess.Data.Candidates)
}
