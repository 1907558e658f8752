package sources

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"

	"github.com/alisaviation/exporter/internal/models"
)

// OpenMeteo reads current conditions from the Open-Meteo forecast API. No key needed.
type OpenMeteo struct {
	BaseURL string
	client  *resty.Client
}

func NewOpenMeteo(client *resty.Client, baseURL string) *OpenMeteo {
	return &OpenMeteo{BaseURL: baseURL, client: client}
}

type openMeteoResponse struct {
	CurrentWeather *struct {
		Temperature *float64 `json:"temperature"`
		WindSpeed   *float64 `json:"windspeed"`
	} `json:"current_weather"`
	Current *struct {
		Humidity  *float64 `json:"relative_humidity_2m"`
		FeelsLike *float64 `json:"apparent_temperature"`
	} `json:"current"`
}

// FetchWeather returns the fields the provider reported. Latency is set whenever the
// provider answered, even if the answer was an error.
func (o *OpenMeteo) FetchWeather(ctx context.Context, city models.City) (models.Weather, error) {
	params := map[string]string{
		"latitude":        formatCoord(city.Lat),
		"longitude":       formatCoord(city.Lon),
		"current_weather": "true",
		"current":         "relative_humidity_2m,apparent_temperature",
	}

	var body openMeteoResponse
	latency, err := getJSON(ctx, o.client, o.BaseURL+"/v1/forecast", params, nil, &body)
	if err != nil {
		return models.Weather{Latency: latency}, err
	}

	w := models.Weather{Latency: latency}
	if cw := body.CurrentWeather; cw != nil {
		w.Temperature = cw.Temperature
		w.WindSpeed = cw.WindSpeed
	}
	if c := body.Current; c != nil {
		w.Humidity = c.Humidity
		w.FeelsLike = c.FeelsLike
	}
	if w.Empty() {
		return models.Weather{}, fmt.Errorf("open-meteo %s: %w: no weather fields", city.Name, ErrMalformedPayload)
	}
	return w, nil
}

// OpenWeather reads the OpenWeatherMap current weather endpoint in metric units.
type OpenWeather struct {
	BaseURL string
	APIKey  string
	client  *resty.Client
}

func NewOpenWeather(client *resty.Client, baseURL, apiKey string) *OpenWeather {
	return &OpenWeather{BaseURL: baseURL, APIKey: apiKey, client: client}
}

type openWeatherResponse struct {
	Main *struct {
		Temp      *float64 `json:"temp"`
		FeelsLike *float64 `json:"feels_like"`
		Humidity  *float64 `json:"humidity"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
}

const metersPerSecondToKmh = 3.6

func (o *OpenWeather) FetchWeather(ctx context.Context, city models.City) (models.Weather, error) {
	params := map[string]string{
		"lat":   formatCoord(city.Lat),
		"lon":   formatCoord(city.Lon),
		"appid": o.APIKey,
		"units": "metric",
	}

	var body openWeatherResponse
	latency, err := getJSON(ctx, o.client, o.BaseURL+"/data/2.5/weather", params, nil, &body)
	if err != nil {
		return models.Weather{Latency: latency}, err
	}

	w := models.Weather{Latency: latency}
	if m := body.Main; m != nil {
		w.Temperature = m.Temp
		w.FeelsLike = m.FeelsLike
		w.Humidity = m.Humidity
	}
	if body.Wind != nil && body.Wind.Speed != nil {
		kmh := *body.Wind.Speed * metersPerSecondToKmh
		w.WindSpeed = &kmh
	}
	if w.Empty() {
		return models.Weather{}, fmt.Errorf("openweather %s: %w: no weather fields", city.Name, ErrMalformedPayload)
	}
	return w, nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
