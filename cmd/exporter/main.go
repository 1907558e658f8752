package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alisaviation/exporter/internal/agent/collector"
	"github.com/alisaviation/exporter/internal/agent/sources"
	"github.com/alisaviation/exporter/internal/config"
	"github.com/alisaviation/exporter/internal/logger"
	"github.com/alisaviation/exporter/internal/server"
	"github.com/alisaviation/exporter/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Error reading .env: %v", err)
	}

	conf, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logger.Initialize(conf.LogLevel); err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Log.Sync()

	store := storage.NewStore()
	srv := server.New(conf.Address, store)
	ln, err := srv.Listen()
	if err != nil {
		logger.Log.Fatal("Cannot start metrics endpoint", zap.Error(err))
	}

	tasks, closeFn, err := buildTasks(conf, store)
	if err != nil {
		logger.Log.Fatal("Cannot build sources", zap.Error(err))
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := collector.NewCollector(store, tasks...)
	if err := run(ctx, srv, ln, c, conf.PollInterval); err != nil {
		logger.Log.Error("Exporter stopped with error", zap.Error(err))
		stop()
		closeFn()
		_ = logger.Log.Sync()
		os.Exit(1)
	}
	logger.Log.Info("Exporter stopped")
}

// run serves metrics and polls until ctx is cancelled. A failing listener stops polling too.
func run(ctx context.Context, srv *server.Server, ln net.Listener, c *collector.Collector, period time.Duration) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(ctx, ln)
	})
	g.Go(func() error {
		c.Run(ctx, period)
		return nil
	})
	return g.Wait()
}

// buildTasks wires one task per configured source, in the order they run each cycle.
func buildTasks(conf config.Exporter, store *storage.Store) ([]collector.Task, func(), error) {
	client := sources.NewClient(conf.RequestTimeout)
	src := conf.Sources

	var weather collector.WeatherFetcher
	switch conf.WeatherProvider {
	case config.ProviderOpenWeather:
		weather = sources.NewOpenWeather(client, src.URLs.OpenWeather, conf.OpenWeatherAPIKey)
	default:
		weather = sources.NewOpenMeteo(client, src.URLs.OpenMeteo)
	}

	tasks := []collector.Task{
		collector.WeatherTask(weather, src.Cities, store),
		collector.FXTask(sources.NewExchangeRates(client, src.URLs.FX, src.FX.Base, src.FX.Quotes), src.FX.Quotes, store),
		collector.CryptoTask(sources.NewCoinGecko(client, src.URLs.CoinGecko, src.Crypto.VsCurrency, conf.CoinGeckoAPIKey), src.Crypto.Coins, store),
	}

	if conf.Simulate {
		tasks = append(tasks, collector.SimulatedTask(sources.NewSimulator(time.Now().UnixNano()), store))
	}

	closeFn := func() {}
	if conf.DatabaseDSN != "" {
		ratings, err := storage.NewRatingsStore(conf.DatabaseDSN, conf.RequestTimeout)
		if err != nil {
			return nil, nil, err
		}
		tasks = append(tasks, collector.RatingsTask(ratings, store))
		closeFn = func() {
			if err := ratings.Close(); err != nil {
				logger.Log.Warn("Error closing movies database", zap.Error(err))
			}
		}
	}

	logger.Log.Info("Sources configured",
		zap.String("weather_provider", conf.WeatherProvider),
		zap.Int("cities", len(src.Cities)),
		zap.Strings("fx_quotes", src.FX.Quotes),
		zap.Int("coins", len(src.Crypto.Coins)),
		zap.Bool("simulate", conf.Simulate),
		zap.Bool("ratings", conf.DatabaseDSN != ""))

	return tasks, closeFn, nil
}
