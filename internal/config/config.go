package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/alisaviation/exporter/internal/models"
)

const (
	ProviderOpenMeteo   = "open-meteo"
	ProviderOpenWeather = "openweather"
)

var (
	ErrMissingAPIKey   = errors.New("OPENWEATHER_API_KEY is required for the openweather provider")
	ErrUnknownProvider = errors.New("unknown weather provider")
)

type Exporter struct {
	Address        string
	PollInterval   time.Duration
	RequestTimeout time.Duration
	LogLevel       string
	SourcesFile    string
	Simulate       bool
	DatabaseDSN    string

	WeatherProvider   string
	OpenWeatherAPIKey string
	CoinGeckoAPIKey   string

	Sources Sources
}

type Sources struct {
	Cities []models.City `mapstructure:"cities"`
	FX     FX            `mapstructure:"fx"`
	Crypto Crypto        `mapstructure:"crypto"`
	URLs   URLs          `mapstructure:"urls"`
}

type FX struct {
	Base   string   `mapstructure:"base"`
	Quotes []string `mapstructure:"quotes"`
}

type Crypto struct {
	VsCurrency string        `mapstructure:"vs_currency"`
	Coins      []models.Coin `mapstructure:"coins"`
}

type URLs struct {
	OpenMeteo   string `mapstructure:"open_meteo"`
	OpenWeather string `mapstructure:"openweather"`
	FX          string `mapstructure:"fx"`
	CoinGecko   string `mapstructure:"coingecko"`
}

func DefaultSources() Sources {
	return Sources{
		Cities: []models.City{
			{Name: "Astana", Country: "Kazakhstan", Lat: 51.1694, Lon: 71.4491},
			{Name: "Almaty", Country: "Kazakhstan", Lat: 43.2220, Lon: 76.8512},
			{Name: "Shymkent", Country: "Kazakhstan", Lat: 42.3417, Lon: 69.5901},
			{Name: "Karaganda", Country: "Kazakhstan", Lat: 49.8066, Lon: 73.0853},
			{Name: "Aktobe", Country: "Kazakhstan", Lat: 50.2839, Lon: 57.1668},
		},
		FX: FX{Base: "USD", Quotes: []string{"KZT", "EUR"}},
		Crypto: Crypto{
			VsCurrency: "usd",
			Coins:      []models.Coin{{Symbol: "BTC", ID: "bitcoin"}},
		},
		URLs: URLs{
			OpenMeteo:   "https://api.open-meteo.com",
			OpenWeather: "https://api.openweathermap.org",
			FX:          "https://open.er-api.com",
			CoinGecko:   "https://api.coingecko.com",
		},
	}
}

// Load reads flags from args, then environment overrides, then the optional sources file.
func Load(args []string) (Exporter, error) {
	var conf Exporter

	fs := flag.NewFlagSet("exporter", flag.ContinueOnError)
	fs.StringVar(&conf.Address, "a", ":8000", "metrics listen address (default: :8000)")
	p := fs.Int64("p", 30, "Poll interval in seconds (default: 30 seconds)")
	t := fs.Int64("t", 10, "Outbound request timeout in seconds (default: 10 seconds)")
	fs.StringVar(&conf.LogLevel, "l", "info", "log level")
	fs.StringVar(&conf.SourcesFile, "c", "", "YAML file with cities, FX quotes and coins")
	fs.StringVar(&conf.WeatherProvider, "w", ProviderOpenMeteo, "weather provider: open-meteo or openweather")
	fs.StringVar(&conf.DatabaseDSN, "d", "", "movies database DSN, ratings metrics are off when empty")
	fs.BoolVar(&conf.Simulate, "s", true, "export simulated load metrics")

	if err := fs.Parse(args); err != nil {
		return Exporter{}, err
	}

	conf.PollInterval = time.Duration(*p) * time.Second
	conf.RequestTimeout = time.Duration(*t) * time.Second

	if err := CheckEnvVariables(&conf); err != nil {
		return Exporter{}, err
	}

	sources, err := LoadSources(conf.SourcesFile)
	if err != nil {
		return Exporter{}, err
	}
	conf.Sources = sources

	return conf, conf.Validate()
}

func CheckEnvVariables(conf *Exporter) error {
	if address := os.Getenv("ADDRESS"); address != "" {
		conf.Address = address
	}
	if pollIntervalStr := os.Getenv("POLL_INTERVAL"); pollIntervalStr != "" {
		pollInterval, err := strconv.Atoi(pollIntervalStr)
		if err != nil {
			return fmt.Errorf("invalid POLL_INTERVAL: %w", err)
		}
		conf.PollInterval = time.Duration(pollInterval) * time.Second
	}
	if timeoutStr := os.Getenv("REQUEST_TIMEOUT"); timeoutStr != "" {
		timeout, err := strconv.Atoi(timeoutStr)
		if err != nil {
			return fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
		}
		conf.RequestTimeout = time.Duration(timeout) * time.Second
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		conf.LogLevel = level
	}
	if path := os.Getenv("SOURCES_FILE"); path != "" {
		conf.SourcesFile = path
	}
	if provider := os.Getenv("WEATHER_PROVIDER"); provider != "" {
		conf.WeatherProvider = provider
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		conf.DatabaseDSN = dsn
	}
	if simulate := os.Getenv("SIMULATE"); simulate != "" {
		value, err := strconv.ParseBool(simulate)
		if err != nil {
			return fmt.Errorf("invalid SIMULATE: %w", err)
		}
		conf.Simulate = value
	}
	conf.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	conf.CoinGeckoAPIKey = os.Getenv("COINGECKO_API_KEY")
	return nil
}

// LoadSources starts from DefaultSources and overlays whatever the file sets.
func LoadSources(path string) (Sources, error) {
	sources := DefaultSources()
	if path == "" {
		return sources, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Sources{}, fmt.Errorf("read sources file: %w", err)
	}
	var file Sources
	if err := v.Unmarshal(&file); err != nil {
		return Sources{}, fmt.Errorf("decode sources file: %w", err)
	}

	if len(file.Cities) > 0 {
		sources.Cities = file.Cities
	}
	if file.FX.Base != "" {
		sources.FX.Base = file.FX.Base
	}
	if len(file.FX.Quotes) > 0 {
		sources.FX.Quotes = file.FX.Quotes
	}
	if file.Crypto.VsCurrency != "" {
		sources.Crypto.VsCurrency = file.Crypto.VsCurrency
	}
	if len(file.Crypto.Coins) > 0 {
		sources.Crypto.Coins = file.Crypto.Coins
	}
	if file.URLs.OpenMeteo != "" {
		sources.URLs.OpenMeteo = file.URLs.OpenMeteo
	}
	if file.URLs.OpenWeather != "" {
		sources.URLs.OpenWeather = file.URLs.OpenWeather
	}
	if file.URLs.FX != "" {
		sources.URLs.FX = file.URLs.FX
	}
	if file.URLs.CoinGecko != "" {
		sources.URLs.CoinGecko = file.URLs.CoinGecko
	}
	return sources, nil
}

func (c Exporter) Validate() error {
	switch c.WeatherProvider {
	case ProviderOpenMeteo:
	case ProviderOpenWeather:
		if c.OpenWeatherAPIKey == "" {
			return ErrMissingAPIKey
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.WeatherProvider)
	}
	if c.Address == "" {
		return errors.New("listen address is empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.PollInterval)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	if len(c.Sources.Cities) == 0 {
		return errors.New("no cities configured")
	}
	return nil
}
