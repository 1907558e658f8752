package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/alisaviation/exporter/internal/models"
)

// CoinGecko reads spot prices from the simple/price endpoint.
type CoinGecko struct {
	BaseURL    string
	VsCurrency string
	APIKey     string
	client     *resty.Client
}

func NewCoinGecko(client *resty.Client, baseURL, vsCurrency, apiKey string) *CoinGecko {
	return &CoinGecko{BaseURL: baseURL, VsCurrency: strings.ToLower(vsCurrency), APIKey: apiKey, client: client}
}

func (c *CoinGecko) FetchPrice(ctx context.Context, coin models.Coin) (float64, error) {
	params := map[string]string{
		"ids":           coin.ID,
		"vs_currencies": c.VsCurrency,
	}
	var headers map[string]string
	if c.APIKey != "" {
		headers = map[string]string{"x-cg-demo-api-key": c.APIKey}
	}

	var body map[string]map[string]*float64
	if _, err := getJSON(ctx, c.client, c.BaseURL+"/api/v3/simple/price", params, headers, &body); err != nil {
		return 0, err
	}

	price, ok := body[coin.ID][c.VsCurrency]
	if !ok || price == nil {
		return 0, fmt.Errorf("coingecko %s: %w: no %s price", coin.Symbol, ErrMalformedPayload, c.VsCurrency)
	}
	return *price, nil
}
