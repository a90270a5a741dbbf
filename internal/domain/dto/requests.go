package dto

import (
	"strconv"
	"strings"
)

// Amount accepts a JSON number or string and keeps the raw text, so that
// non-numeric input can be told apart from zero.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*a = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	*a = Amount(s)
	return nil
}

func (a Amount) String() string {
	return string(a)
}

type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type PageRequest struct {
	Page string `json:"page" validate:"required,oneof=home create_trip preferences planning overview"`
}

type CreateTripRequest struct {
	Name      string `json:"name"`
	Budget    Amount `json:"budget"`
	PreSpent  Amount `json:"pre_spent"`
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date"`
}

type UpdateBudgetRequest struct {
	Budget   Amount `json:"budget"`
	PreSpent Amount `json:"pre_spent"`
}

// PreferencesRequest holds questionnaire answers on the five-step scale.
// A missing axis takes the neutral default.
type PreferencesRequest struct {
	Nature  *int     `json:"nature" validate:"omitempty,min=0,max=4"`
	History *int     `json:"history" validate:"omitempty,min=0,max=4"`
	Trend   *int     `json:"trend" validate:"omitempty,min=0,max=4"`
	Fun     *int     `json:"fun" validate:"omitempty,min=0,max=4"`
	Urban   *int     `json:"urban" validate:"omitempty,min=0,max=4"`
	Tags    []string `json:"tags"`
}

type POIFilterRequest struct {
	Districts  []string `query:"district"`
	Categories []string `query:"category"`
	Keyword    string   `query:"q"`
	Limit      int      `query:"limit" validate:"min=0"`
}

type NightMarketRequest struct {
	Day int `query:"day" validate:"min=0"`
}

type SubBudgetInput struct {
	Category string `json:"Category"`
	Cost     int    `json:"Cost" validate:"min=0"`
	Note     string `json:"Note"`
}

type AddItemRequest struct {
	Name       string           `json:"name" validate:"required"`
	Day        int              `json:"day" validate:"required,min=1"`
	Start      string           `json:"start" validate:"required"`
	End        string           `json:"end"`
	Note       string           `json:"note"`
	Latitude   float64          `json:"latitude"`
	Longitude  float64          `json:"longitude"`
	SubBudgets []SubBudgetInput `json:"sub_budgets" validate:"dive"`
}

type ManualItemRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Day      int    `json:"day" validate:"required,min=1"`
	Start    string `json:"start"`
	Cost     int    `json:"cost" validate:"min=0"`
	Category string `json:"category"`
}

// AddFromSourceRequest picks a source entry by ID (recommendations, POIs),
// by Name (night markets) or by Index (favorites).
type AddFromSourceRequest struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Index *int   `json:"index"`
	Day   int    `json:"day" validate:"required,min=1"`
	Start string `json:"start"`
}

type UpdateItemRequest struct {
	Name  string  `json:"name"`
	Day   int     `json:"day" validate:"min=0"`
	Start string  `json:"start"`
	End   string  `json:"end"`
	Note  *string `json:"note"`
}

type MoveItemRequest struct {
	Direction int `json:"direction" validate:"oneof=-1 1"`
}

type ReassignDayRequest struct {
	Day int `json:"day" validate:"required,min=1"`
}

// SubBudgetRequest.Note is left untouched on edit when omitted.
type SubBudgetRequest struct {
	Category string  `json:"category"`
	Cost     Amount  `json:"cost"`
	Note     *string `json:"note"`
}

type FavoriteRequest struct {
	Source string `json:"source" validate:"required,oneof=recommendation poi night_market"`
	ID     string `json:"id"`
	Name   string `json:"name"`
}

type SnapshotRequest struct {
	Name string `json:"name"`
}
