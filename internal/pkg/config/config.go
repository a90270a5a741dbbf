package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ougirez/tripplanner/internal/pkg/constants"
	"github.com/spf13/viper"
)

// Init registers defaults, reads an optional config file and binds
// PLANNER_* environment variables. An empty path looks for ./config.yaml.
func Init(path string) error {
	SetDefaults()

	viper.SetEnvPrefix("planner")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("viper.ReadInConfig: %w", err)
	}

	return nil
}

// DefaultSecret only suits local runs; tokens signed with it can be forged
// by anyone who has read this file.
const DefaultSecret = "change-me"

// UsesDefaultSecret reports whether the token secret was left unset.
func UsesDefaultSecret() bool {
	return viper.GetString(constants.ViperSecretKey) == DefaultSecret
}

func SetDefaults() {
	viper.SetDefault(constants.ViperServerAddrKey, ":8080")
	viper.SetDefault(constants.ViperServerCORSOriginKey, []string{"http://localhost:3000"})
	viper.SetDefault(constants.ViperLogModeKey, "dev")
	viper.SetDefault(constants.ViperSecretKey, DefaultSecret)
	viper.SetDefault(constants.ViperTokenTTLKey, "72h")

	viper.SetDefault(constants.ViperPOIPathKey, "data/data.csv")
	viper.SetDefault(constants.ViperNightMarketPathsKey, []string{"data/night_markets.csv", "night_markets.csv"})

	viper.SetDefault(constants.ViperStoreDriverKey, constants.StoreDriverFile)
	viper.SetDefault(constants.ViperStorePathKey, "users_db.json")
	viper.SetDefault(constants.ViperStoreDSNKey, "")

	viper.SetDefault(constants.ViperGeocoderBaseURLKey, "https://nominatim.openstreetmap.org")
	viper.SetDefault(constants.ViperGeocoderUserAgentKey, "kaohsiung_travel_planner_app_v1")
	viper.SetDefault(constants.ViperGeocoderTimeoutKey, constants.DefaultGeocodeTimeout)
	viper.SetDefault(constants.ViperGeocoderCountryKey, "台灣")
	viper.SetDefault(constants.ViperGeocoderCityKey, "高雄市")
}
