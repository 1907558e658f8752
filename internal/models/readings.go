package models

import (
	"strings"
	"time"
)

type City struct {
	Name    string  `mapstructure:"name"`
	Country string  `mapstructure:"country"`
	Lat     float64 `mapstructure:"lat"`
	Lon     float64 `mapstructure:"lon"`
}

// Weather is one provider reading. A nil field was absent from the payload.
type Weather struct {
	Latency time.Duration

	Temperature *float64
	FeelsLike   *float64
	Humidity    *float64
	WindSpeed   *float64
}

func (w Weather) Empty() bool {
	return w.Temperature == nil && w.FeelsLike == nil && w.Humidity == nil && w.WindSpeed == nil
}

type FXRates struct {
	Base  string
	Rates map[string]float64
}

// Pair returns the label used for a base/quote rate, e.g. USD_KZT.
func Pair(base, quote string) string {
	return strings.ToUpper(base) + "_" + strings.ToUpper(quote)
}

// Coin maps a ticker symbol to the provider's coin id.
type Coin struct {
	Symbol string `mapstructure:"symbol"`
	ID     string `mapstructure:"id"`
}

type SimulatedLoad struct {
	ActiveUsers float64
	RequestRate float64
	RandomLoad  float64
}

type RatingStats struct {
	Movies        int64
	Ratings       int64
	AverageRating float64
}
