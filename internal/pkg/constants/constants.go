package constants

import "time"

const (
	ViperServerAddrKey       = "server.addr"
	ViperServerCORSOriginKey = "server.cors_origins"
	ViperLogModeKey          = "log.mode"
	ViperSecretKey           = "auth.secret"
	ViperTokenTTLKey         = "auth.token_ttl"

	ViperPOIPathKey          = "data.poi_path"
	ViperNightMarketPathsKey = "data.night_market_paths"

	ViperStoreDriverKey = "store.driver"
	ViperStorePathKey   = "store.path"
	ViperStoreDSNKey    = "store.dsn"

	ViperGeocoderBaseURLKey   = "geocoder.base_url"
	ViperGeocoderUserAgentKey = "geocoder.user_agent"
	ViperGeocoderTimeoutKey   = "geocoder.timeout"
	ViperGeocoderCountryKey   = "geocoder.country"
	ViperGeocoderCityKey      = "geocoder.city"

	ViperClassifierTableKey = "classifier.table"
)

const (
	CookieKeyAuthToken = "planner_auth"

	CtxKeyUsername  = "username"
	CtxKeyRequestID = "request_id"
	CtxKeySession   = "session"
)

const (
	StoreDriverFile     = "file"
	StoreDriverSQLite   = "sqlite3"
	StoreDriverPostgres = "pgx"
)

const DefaultGeocodeTimeout = 10 * time.Second
