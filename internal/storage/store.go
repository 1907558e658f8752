package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/alisaviation/exporter/internal/models"
)

// Store owns the exporter's registry. Gauges keep their last written value;
// nothing here ever deletes a series.
type Store struct {
	registry *prometheus.Registry

	temperature *prometheus.GaugeVec
	feelsLike   *prometheus.GaugeVec
	humidity    *prometheus.GaugeVec
	windSpeed   *prometheus.GaugeVec
	apiCalls    prometheus.Gauge
	apiLatency  prometheus.Gauge

	fxRate      *prometheus.GaugeVec
	cryptoPrice *prometheus.GaugeVec

	activeUsers prometheus.Gauge
	requestRate prometheus.Gauge
	randomLoad  prometheus.Gauge

	movies        prometheus.Gauge
	ratings       prometheus.Gauge
	ratingAverage prometheus.Gauge

	sourceUp      *prometheus.GaugeVec
	cycleDuration prometheus.Gauge
	apiSuccess    prometheus.Gauge
}

var cityLabels = []string{"city", "country"}

func NewStore() *Store {
	s := &Store{
		registry: prometheus.NewRegistry(),

		temperature: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: models.WeatherTemperature,
			Help: "Current temperature",
		}, cityLabels),
		feelsLike: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: models.WeatherFeelsLike,
			Help: "Feels like temperature",
		}, cityLabels),
		humidity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: models.WeatherHumidity,
			Help: "Humidity level",
		}, cityLabels),
		windSpeed: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: models.WeatherWindSpeed,
			Help: "Current wind speed",
		}, cityLabels),
		apiCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.WeatherAPICalls,
			Help: "Successful weather API calls in the last cycle",
		}),
		apiLatency: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.WeatherResponseTime,
			Help: "API response time in seconds",
		}),

		fxRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: models.FXRate,
			Help: "Currency exchange rates",
		}, []string{"pair"}),
		cryptoPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: models.CryptoPrice,
			Help: "Cryptocurrency prices",
		}, []string{"symbol"}),

		activeUsers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.SimActiveUsers,
			Help: "Simulated active users",
		}),
		requestRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.SimRequestRate,
			Help: "Simulated request rate per minute",
		}),
		randomLoad: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.SimRandomLoad,
			Help: "Random load metric",
		}),

		movies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.MoviesCount,
			Help: "Movies in the movies database",
		}),
		ratings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.RatingsCount,
			Help: "Ratings in the movies database",
		}),
		ratingAverage: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.RatingAverage,
			Help: "Average rating across all movies",
		}),

		sourceUp: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: models.SourceUp,
			Help: "Whether the source succeeded in the last cycle (1=ok,0=fail)",
		}, []string{"source"}),
		cycleDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.CycleDuration,
			Help: "Duration of the last poll cycle",
		}),
		apiSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: models.APISuccess,
			Help: "API success (1=ok,0=fail)",
		}),
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		s.temperature, s.feelsLike, s.humidity, s.windSpeed, s.apiCalls, s.apiLatency,
		s.fxRate, s.cryptoPrice,
		s.activeUsers, s.requestRate, s.randomLoad,
		s.movies, s.ratings, s.ratingAverage,
		s.sourceUp, s.cycleDuration, s.apiSuccess,
	)
	return s
}

func (s *Store) Gatherer() prometheus.Gatherer {
	return s.registry
}

// SetWeather writes the fields present in w; absent fields keep their previous value.
func (s *Store) SetWeather(city models.City, w models.Weather) {
	setIfPresent(s.temperature, city, w.Temperature)
	setIfPresent(s.feelsLike, city, w.FeelsLike)
	setIfPresent(s.humidity, city, w.Humidity)
	setIfPresent(s.windSpeed, city, w.WindSpeed)
}

func setIfPresent(vec *prometheus.GaugeVec, city models.City, value *float64) {
	if value == nil {
		return
	}
	vec.WithLabelValues(city.Name, city.Country).Set(*value)
}

func (s *Store) SetWeatherCalls(n int) {
	s.apiCalls.Set(float64(n))
}

func (s *Store) SetWeatherLatency(d time.Duration) {
	s.apiLatency.Set(d.Seconds())
}

func (s *Store) SetFXRate(pair string, value float64) {
	s.fxRate.WithLabelValues(pair).Set(value)
}

func (s *Store) SetCryptoPrice(symbol string, value float64) {
	s.cryptoPrice.WithLabelValues(symbol).Set(value)
}

func (s *Store) SetSimulated(load models.SimulatedLoad) {
	s.activeUsers.Set(load.ActiveUsers)
	s.requestRate.Set(load.RequestRate)
	s.randomLoad.Set(load.RandomLoad)
}

func (s *Store) SetRatingStats(stats models.RatingStats) {
	s.movies.Set(float64(stats.Movies))
	s.ratings.Set(float64(stats.Ratings))
	s.ratingAverage.Set(stats.AverageRating)
}

func (s *Store) SetSourceUp(source string, up bool) {
	s.sourceUp.WithLabelValues(source).Set(boolToFloat(up))
}

func (s *Store) SetCycleSuccess(ok bool) {
	s.apiSuccess.Set(boolToFloat(ok))
}

func (s *Store) SetCycleDuration(d time.Duration) {
	s.cycleDuration.Set(d.Seconds())
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
