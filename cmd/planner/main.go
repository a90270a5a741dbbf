package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ougirez/tripplanner/internal/api"
	"github.com/ougirez/tripplanner/internal/pkg/classifier"
	"github.com/ougirez/tripplanner/internal/pkg/config"
	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/ougirez/tripplanner/internal/pkg/logger"
	"github.com/ougirez/tripplanner/internal/pkg/store"
	"github.com/ougirez/tripplanner/internal/service/catalog"
	"github.com/ougirez/tripplanner/internal/service/geocode"
	"github.com/spf13/viper"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "config.Init: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(viper.GetString(constants.ViperLogModeKey)); err != nil {
		fmt.Fprintf(os.Stderr, "logger.Init: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if config.UsesDefaultSecret() {
		logger.Warnf(context.Background(), "%s is the built-in default, set PLANNER_AUTH_SECRET before exposing the server", constants.ViperSecretKey)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	table := classifier.DefaultTable()
	if override := viper.GetStringMapStringSlice(constants.ViperClassifierTableKey); len(override) > 0 {
		table = classifier.FromMap(override)
	}

	catalogService, err := catalog.Load(ctx, table,
		viper.GetString(constants.ViperPOIPathKey),
		viper.GetStringSlice(constants.ViperNightMarketPathsKey),
	)
	if err != nil {
		logger.Errorf(ctx, "catalog.Load: %s, serving an empty catalog", err.Error())
	}

	st, err := store.New(ctx,
		viper.GetString(constants.ViperStoreDriverKey),
		viper.GetString(constants.ViperStorePathKey),
		viper.GetString(constants.ViperStoreDSNKey),
	)
	if err != nil {
		logger.Fatal(ctx, fmt.Errorf("store.New: %w", err))
	}
	if closer, ok := st.(io.Closer); ok {
		defer closer.Close()
	}

	geocoder := geocode.NewGeocodeService(
		geocode.NewNominatimClient(
			viper.GetString(constants.ViperGeocoderBaseURLKey),
			viper.GetString(constants.ViperGeocoderUserAgentKey),
			&http.Client{},
		),
		geocode.WithTimeout(viper.GetDuration(constants.ViperGeocoderTimeoutKey)),
		geocode.WithRegion(
			viper.GetString(constants.ViperGeocoderCountryKey),
			viper.GetString(constants.ViperGeocoderCityKey),
		),
	)

	apiService, err := api.NewAPIService(st, catalogService, geocoder)
	if err != nil {
		logger.Fatal(ctx, fmt.Errorf("api.NewAPIService: %w", err))
	}

	go apiService.Serve(viper.GetString(constants.ViperServerAddrKey))
	logger.Infof(ctx, "listening on %s", viper.GetString(constants.ViperServerAddrKey))

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := apiService.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "shutdown: %s", err.Error())
	}
}
