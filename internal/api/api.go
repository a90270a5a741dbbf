package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/ougirez/tripplanner/internal/api/controller"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
	"github.com/ougirez/tripplanner/internal/pkg/store"
	"github.com/ougirez/tripplanner/internal/service/auth"
	"github.com/ougirez/tripplanner/internal/service/catalog"
	"github.com/ougirez/tripplanner/internal/service/export"
	"github.com/ougirez/tripplanner/internal/service/history"
	"github.com/ougirez/tripplanner/internal/service/itinerary"
	"github.com/ougirez/tripplanner/internal/service/recommend"
	"github.com/spf13/viper"
)

type APIService struct {
	router      *echo.Echo
	authService *auth.Service
}

func (svc *APIService) Serve(addr string) {
	if err := svc.router.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal(context.Background(), err)
	}
}

func (svc *APIService) Shutdown(ctx context.Context) error {
	return svc.router.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (svc *APIService) Handler() http.Handler {
	return svc.router
}

func NewAPIService(store store.Store, catalogService *catalog.Service, geocoder itinerary.Geocoder) (*APIService, error) {
	svc := &APIService{router: echo.New()}

	svc.router.HideBanner = true
	svc.router.Logger.SetLevel(log.WARN)
	svc.router.Validator = NewValidator()
	svc.router.Binder = NewBinder()
	svc.router.HTTPErrorHandler = httpErrorHandler
	svc.router.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	svc.router.Use(svc.RequestLoggerMiddleware)
	svc.router.Use(middleware.Recover())
	svc.router.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     viper.GetStringSlice(constants.ViperServerCORSOriginKey),
		AllowMethods:     []string{echo.GET, echo.PUT, echo.POST, echo.DELETE},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	svc.authService = auth.NewAuthService(store)
	itineraryService := itinerary.NewItineraryService(store, geocoder)

	cntrl := controller.NewController(
		svc.authService,
		catalogService,
		recommend.NewRecommendService(),
		itineraryService,
		history.NewHistoryService(store),
		export.NewExportService(),
	)

	api := svc.router.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", cntrl.Register)
	authGroup.POST("/login", cntrl.Login)
	authGroup.POST("/logout", cntrl.Logout)
	authGroup.PUT("/password", cntrl.ChangePassword, svc.AuthMiddleware)

	session := api.Group("/session", svc.AuthMiddleware)
	session.GET("", cntrl.GetSession)
	session.PUT("/page", cntrl.SetPage)

	trip := api.Group("/trip", svc.AuthMiddleware)
	trip.POST("", cntrl.CreateTrip)
	trip.PUT("/budget", cntrl.UpdateBudget)
	trip.GET("/summary", cntrl.GetSummary)

	recommendations := api.Group("/recommendations", svc.AuthMiddleware)
	recommendations.POST("", cntrl.Recommend)
	recommendations.GET("", cntrl.GetRecommendations)

	pois := api.Group("/pois", svc.AuthMiddleware)
	pois.GET("", cntrl.FilterPOIs)
	pois.GET("/districts", cntrl.GetDistricts)
	pois.GET("/categories", cntrl.GetCategories)

	api.GET("/night-markets", cntrl.GetNightMarkets, svc.AuthMiddleware)

	items := api.Group("/itinerary", svc.AuthMiddleware)
	items.GET("", cntrl.GetItinerary)
	items.POST("", cntrl.AddItem)
	items.POST("/manual", cntrl.AddManual)
	items.POST("/from-recommendation", cntrl.AddFromRecommendation)
	items.POST("/from-poi", cntrl.AddFromPOI)
	items.POST("/from-night-market", cntrl.AddFromNightMarket)
	items.POST("/from-favorite", cntrl.AddFromFavorite)
	items.PUT("/:index", cntrl.UpdateItem)
	items.DELETE("/:index", cntrl.DeleteItem)
	items.POST("/:index/move", cntrl.MoveItem)
	items.PUT("/:index/day", cntrl.ReassignDay)
	items.POST("/:index/sub-budgets", cntrl.AddSubBudget)
	items.PUT("/:index/sub-budgets/:sub", cntrl.EditSubBudget)
	items.DELETE("/:index/sub-budgets/:sub", cntrl.DeleteSubBudget)

	favorites := api.Group("/favorites", svc.AuthMiddleware)
	favorites.GET("", cntrl.GetFavorites)
	favorites.POST("", cntrl.AddFavorite)
	favorites.DELETE("/:index", cntrl.RemoveFavorite)

	hist := api.Group("/history", svc.AuthMiddleware)
	hist.GET("", cntrl.ListHistory)
	hist.POST("", cntrl.SaveHistory)
	hist.POST("/:name/restore", cntrl.RestoreHistory)
	hist.DELETE("/:name", cntrl.DeleteHistory)

	exp := api.Group("/export", svc.AuthMiddleware)
	exp.GET("/csv", cntrl.ExportCSV)
	exp.GET("/txt", cntrl.ExportTXT)

	return svc, nil
}
