package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alisaviation/exporter/internal/agent/collector"
	"github.com/alisaviation/exporter/internal/models"
	"github.com/alisaviation/exporter/internal/storage"
)

var astana = models.City{Name: "Astana", Country: "Kazakhstan", Lat: 51.1694, Lon: 71.4491}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	return w.Body.String()
}

func TestMetrics_Exposition(t *testing.T) {
	store := storage.NewStore()
	store.SetWeather(astana, models.Weather{Temperature: ptr(21.5), WindSpeed: ptr(3.2)})
	store.SetFXRate("USD_KZT", 512.3)
	store.SetCryptoPrice("BTC", 67000)
	store.SetCycleSuccess(true)

	body := scrape(t, New(":0", store).Router())

	assert.Contains(t, body, `weather_temperature_celsius{city="Astana",country="Kazakhstan"} 21.5`)
	assert.Contains(t, body, `weather_windspeed_kmh{city="Astana",country="Kazakhstan"} 3.2`)
	assert.Contains(t, body, `custom_fx_rate{pair="USD_KZT"} 512.3`)
	assert.Contains(t, body, `custom_crypto_price{symbol="BTC"} 67000`)
	assert.Contains(t, body, "custom_api_success 1")
	assert.Contains(t, body, "# TYPE weather_temperature_celsius gauge")
	assert.NotContains(t, body, "weather_humidity_percent{")
}

func TestMetrics_LiveAfterFailures(t *testing.T) {
	store := storage.NewStore()
	failing := func(ctx context.Context) error { return collector.ErrMockUnavailable }
	c := collector.NewCollector(store,
		collector.Task{Name: models.SourceWeather, Run: failing},
		collector.Task{Name: models.SourceFX, Run: failing},
		collector.Task{Name: models.SourceCrypto, Run: func(ctx context.Context) error { panic("boom") }},
	)
	router := New(":0", store).Router()

	for i := 0; i < 5; i++ {
		require.False(t, c.CollectOnce(context.Background()))
		body := scrape(t, router)
		assert.Contains(t, body, "custom_api_success 0")
		assert.Contains(t, body, `exporter_source_up{source="crypto"} 0`)
	}
}

func TestRouter_Routes(t *testing.T) {
	store := storage.NewStore()
	store.SetFXRate("USD_EUR", 0.92)
	router := New(":0", store).Router()

	tests := []struct {
		name         string
		method       string
		url          string
		expectedCode int
		expectedBody string
	}{
		{"GET metrics", http.MethodGet, "/metrics", http.StatusOK, "custom_fx_rate"},
		{"GET health", http.MethodGet, "/healthz", http.StatusOK, "ok"},
		{"GET index", http.MethodGet, "/", http.StatusOK, `<li>custom_fx_rate{pair=&#34;USD_EUR&#34;}: 0.92</li>`},
		{"POST metrics", http.MethodPost, "/metrics", http.StatusMethodNotAllowed, ""},
		{"DELETE index", http.MethodDelete, "/", http.StatusMethodNotAllowed, ""},
		{"unknown path", http.MethodGet, "/update/", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.url, nil))

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestGetMetricsList_HidesRuntimeFamilies(t *testing.T) {
	store := storage.NewStore()
	w := httptest.NewRecorder()
	New(":0", store).GetMetricsList(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "text/html", w.Header().Get("Content-Type"))
	assert.NotContains(t, w.Body.String(), "go_goroutines")
}

func TestListen_PortInUse(t *testing.T) {
	srv := New("127.0.0.1:0", storage.NewStore())
	ln, err := srv.Listen()
	require.NoError(t, err)
	defer ln.Close()

	_, err = New(ln.Addr().String(), storage.NewStore()).Listen()
	require.Error(t, err)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	store := storage.NewStore()
	store.SetCryptoPrice("BTC", 1)
	srv := New("127.0.0.1:0", store)
	ln, err := srv.Listen()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx, ln) }()

	var body []byte
	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/metrics")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, err = io.ReadAll(resp.Body)
		return err == nil && resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)
	assert.True(t, strings.Contains(string(body), `custom_crypto_price{symbol="BTC"} 1`))

	cancel()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * shutdownTimeout):
		t.Fatal("Serve did not return after cancel")
	}
}

func ptr(v float64) *float64 {
	return &v
}
