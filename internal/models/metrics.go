package models

const (
	WeatherTemperature  = "weather_temperature_celsius"
	WeatherFeelsLike    = "weather_feels_like_celsius"
	WeatherHumidity     = "weather_humidity_percent"
	WeatherWindSpeed    = "weather_windspeed_kmh"
	WeatherAPICalls     = "weather_api_calls_total"
	WeatherResponseTime = "weather_api_response_time_seconds"

	FXRate      = "custom_fx_rate"
	CryptoPrice = "custom_crypto_price"

	SimActiveUsers = "custom_sim_active_users"
	SimRequestRate = "custom_sim_request_rate_per_min"
	SimRandomLoad  = "custom_sim_random_load"

	MoviesCount   = "movies_db_movies"
	RatingsCount  = "movies_db_ratings"
	RatingAverage = "movies_db_rating_average"

	SourceUp      = "exporter_source_up"
	CycleDuration = "exporter_cycle_duration_seconds"
	APISuccess    = "custom_api_success"
)

// Source names double as the value of the "source" label on SourceUp.
const (
	SourceWeather   = "weather"
	SourceFX        = "fx"
	SourceCrypto    = "crypto"
	SourceSimulated = "simulated"
	SourceRatings   = "ratings"
)
