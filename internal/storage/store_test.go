package storage

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alisaviation/exporter/internal/models"
)

var astana = models.City{Name: "Astana", Country: "Kazakhstan", Lat: 51.1694, Lon: 71.4491}

func cityLabelSet(c models.City) map[string]string {
	return map[string]string{"city": c.Name, "country": c.Country}
}

func TestSetWeather_PartialKeepsPrevious(t *testing.T) {
	s := NewStore()

	s.SetWeather(astana, models.Weather{
		Temperature: ptr(10),
		Humidity:    ptr(40),
		WindSpeed:   ptr(1),
	})
	s.SetWeather(astana, models.Weather{
		Temperature: ptr(21.5),
		WindSpeed:   ptr(3.2),
	})

	assert.Equal(t, 21.5, testutil.ToFloat64(s.temperature.WithLabelValues("Astana", "Kazakhstan")))
	assert.Equal(t, 3.2, testutil.ToFloat64(s.windSpeed.WithLabelValues("Astana", "Kazakhstan")))
	assert.Equal(t, 40.0, testutil.ToFloat64(s.humidity.WithLabelValues("Astana", "Kazakhstan")))

	_, ok := lookup(s.Gatherer(), models.WeatherFeelsLike, cityLabelSet(astana))
	assert.False(t, ok, "series never written must not exist")
}

func TestSetters(t *testing.T) {
	s := NewStore()

	s.SetFXRate("USD_KZT", 512.3)
	s.SetCryptoPrice("BTC", 67000)
	s.SetWeatherCalls(4)
	s.SetWeatherLatency(250 * time.Millisecond)
	s.SetSimulated(models.SimulatedLoad{ActiveUsers: 150, RequestRate: 75.5, RandomLoad: 42})
	s.SetRatingStats(models.RatingStats{Movies: 9742, Ratings: 100836, AverageRating: 3.5})
	s.SetSourceUp(models.SourceFX, true)
	s.SetSourceUp(models.SourceCrypto, false)
	s.SetCycleSuccess(true)
	s.SetCycleDuration(2 * time.Second)

	tests := []struct {
		name   string
		labels map[string]string
		want   float64
	}{
		{models.FXRate, map[string]string{"pair": "USD_KZT"}, 512.3},
		{models.CryptoPrice, map[string]string{"symbol": "BTC"}, 67000},
		{models.WeatherAPICalls, nil, 4},
		{models.WeatherResponseTime, nil, 0.25},
		{models.SimActiveUsers, nil, 150},
		{models.SimRequestRate, nil, 75.5},
		{models.SimRandomLoad, nil, 42},
		{models.MoviesCount, nil, 9742},
		{models.RatingsCount, nil, 100836},
		{models.RatingAverage, nil, 3.5},
		{models.SourceUp, map[string]string{"source": "fx"}, 1},
		{models.SourceUp, map[string]string{"source": "crypto"}, 0},
		{models.APISuccess, nil, 1},
		{models.CycleDuration, nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := lookup(s.Gatherer(), tt.name, tt.labels)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCycleSuccess_Toggles(t *testing.T) {
	s := NewStore()

	s.SetCycleSuccess(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(s.apiSuccess))
	s.SetCycleSuccess(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(s.apiSuccess))
}

func TestFXRate_LabelSetsAreDistinct(t *testing.T) {
	s := NewStore()
	s.SetFXRate("USD_EUR", 0.92)

	_, ok := lookup(s.Gatherer(), models.FXRate, map[string]string{"pair": "USD_KZT"})
	assert.False(t, ok)
	_, ok = lookup(s.Gatherer(), models.FXRate, nil)
	assert.False(t, ok)
}

func TestRegistry_GathersRuntimeCollectors(t *testing.T) {
	s := NewStore()

	families, err := s.Gatherer().Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["go_goroutines"])
}

// lookup returns the current value of the gauge series name{labels}, matching the label set exactly.
func lookup(g prometheus.Gatherer, name string, labels map[string]string) (float64, bool) {
	// Gather still returns what it collected when one collector fails.
	families, _ := g.Gather()
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, m := range family.GetMetric() {
			if len(m.GetLabel()) != len(labels) {
				continue
			}
			matched := true
			for _, pair := range m.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					matched = false
					break
				}
			}
			if matched && m.GetGauge() != nil {
				return m.GetGauge().GetValue(), true
			}
		}
	}
	return 0, false
}

func ptr(v float64) *float64 {
	return &v
}
