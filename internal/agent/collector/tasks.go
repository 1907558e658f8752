package collector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/alisaviation/exporter/internal/logger"
	"github.com/alisaviation/exporter/internal/models"
	"github.com/alisaviation/exporter/internal/storage"
)

type WeatherFetcher interface {
	FetchWeather(ctx context.Context, city models.City) (models.Weather, error)
}

type FXFetcher interface {
	FetchFX(ctx context.Context) (models.FXRates, error)
}

type PriceFetcher interface {
	FetchPrice(ctx context.Context, coin models.Coin) (float64, error)
}

type LoadSampler interface {
	Sample() models.SimulatedLoad
}

type RatingsReader interface {
	RatingStats(ctx context.Context) (models.RatingStats, error)
}

var ErrMissingQuote = errors.New("quote missing from response")

// WeatherTask polls every city. A failing city leaves its series stale and does not
// stop the remaining cities.
func WeatherTask(f WeatherFetcher, cities []models.City, store *storage.Store) Task {
	return Task{
		Name: models.SourceWeather,
		Run: func(ctx context.Context) error {
			var errs []error
			calls := 0

			for _, city := range cities {
				err := guard(func() error {
					w, err := f.FetchWeather(ctx, city)
					if w.Latency > 0 {
						store.SetWeatherLatency(w.Latency)
					}
					if err != nil {
						return err
					}
					store.SetWeather(city, w)
					return nil
				})
				if err != nil {
					logger.Log.Warn("Weather update failed",
						zap.String("city", city.Name),
						zap.Error(err))
					errs = append(errs, fmt.Errorf("%s: %w", city.Name, err))
					continue
				}
				calls++
				logger.Log.Debug("Weather data updated", zap.String("city", city.Name))
			}

			store.SetWeatherCalls(calls)
			return errors.Join(errs...)
		},
	}
}

// FXTask writes every rate the provider returned. Configured quotes it did not return
// keep their previous value and fail the source.
func FXTask(f FXFetcher, quotes []string, store *storage.Store) Task {
	return Task{
		Name: models.SourceFX,
		Run: func(ctx context.Context) error {
			rates, err := f.FetchFX(ctx)
			if err != nil {
				return err
			}

			var missing []string
			for _, quote := range quotes {
				quote = strings.ToUpper(quote)
				rate, ok := rates.Rates[quote]
				if !ok {
					missing = append(missing, quote)
					continue
				}
				store.SetFXRate(models.Pair(rates.Base, quote), rate)
			}
			if len(missing) > 0 {
				return fmt.Errorf("%w: %s", ErrMissingQuote, strings.Join(missing, ","))
			}
			return nil
		},
	}
}

func CryptoTask(f PriceFetcher, coins []models.Coin, store *storage.Store) Task {
	return Task{
		Name: models.SourceCrypto,
		Run: func(ctx context.Context) error {
			var errs []error
			for _, coin := range coins {
				err := guard(func() error {
					price, err := f.FetchPrice(ctx, coin)
					if err != nil {
						return err
					}
					store.SetCryptoPrice(coin.Symbol, price)
					return nil
				})
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", coin.Symbol, err))
				}
			}
			return errors.Join(errs...)
		},
	}
}

func SimulatedTask(s LoadSampler, store *storage.Store) Task {
	return Task{
		Name: models.SourceSimulated,
		Run: func(ctx context.Context) error {
			store.SetSimulated(s.Sample())
			return nil
		},
	}
}

func RatingsTask(r RatingsReader, store *storage.Store) Task {
	return Task{
		Name: models.SourceRatings,
		Run: func(ctx context.Context) error {
			stats, err := r.RatingStats(ctx)
			if err != nil {
				return err
			}
			store.SetRatingStats(stats)
			return nil
		},
	}
}
