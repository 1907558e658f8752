package collector

import (
	"context"
	"errors"
	"sync"

	"github.com/alisaviation/exporter/internal/models"
)

var ErrMockUnavailable = errors.New("mock source unavailable")

type MockWeatherFetcher struct {
	mu       sync.Mutex
	Readings map[string]models.Weather
	Errs     map[string]error
	Panic    bool
	Calls    int
}

func (m *MockWeatherFetcher) FetchWeather(ctx context.Context, city models.City) (models.Weather, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++

	if m.Panic {
		panic("weather decoder exploded")
	}
	if err := m.Errs[city.Name]; err != nil {
		return models.Weather{Latency: m.Readings[city.Name].Latency}, err
	}
	w, ok := m.Readings[city.Name]
	if !ok {
		return models.Weather{}, ErrMockUnavailable
	}
	return w, nil
}

type MockFXFetcher struct {
	Rates models.FXRates
	Err   error
}

func (m *MockFXFetcher) FetchFX(ctx context.Context) (models.FXRates, error) {
	if m.Err != nil {
		return models.FXRates{}, m.Err
	}
	return m.Rates, nil
}

type MockPriceFetcher struct {
	Prices map[string]float64
	Err    error
}

func (m *MockPriceFetcher) FetchPrice(ctx context.Context, coin models.Coin) (float64, error) {
	if m.Err != nil {
		return 0, m.Err
	}
	price, ok := m.Prices[coin.Symbol]
	if !ok {
		return 0, ErrMockUnavailable
	}
	return price, nil
}

type MockLoadSampler struct {
	Load models.SimulatedLoad
}

func (m *MockLoadSampler) Sample() models.SimulatedLoad {
	return m.Load
}

type MockRatingsReader struct {
	Stats models.RatingStats
	Err   error
}

func (m *MockRatingsReader) RatingStats(ctx context.Context) (models.RatingStats, error) {
	return m.Stats, m.Err
}
