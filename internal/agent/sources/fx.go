package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/alisaviation/exporter/internal/models"
)

// ExchangeRates reads the open.er-api.com latest rates for one base currency.
type ExchangeRates struct {
	BaseURL string
	Base    string
	Quotes  []string
	client  *resty.Client
}

func NewExchangeRates(client *resty.Client, baseURL, base string, quotes []string) *ExchangeRates {
	return &ExchangeRates{BaseURL: baseURL, Base: strings.ToUpper(base), Quotes: quotes, client: client}
}

type fxResponse struct {
	Result string              `json:"result"`
	Rates  map[string]*float64 `json:"rates"`
}

// FetchFX returns the configured quotes that the provider reported. Quotes missing from
// the payload are left out; an answer with none of them is an error.
func (e *ExchangeRates) FetchFX(ctx context.Context) (models.FXRates, error) {
	var body fxResponse
	if _, err := getJSON(ctx, e.client, e.BaseURL+"/v6/latest/"+e.Base, nil, nil, &body); err != nil {
		return models.FXRates{}, err
	}

	if body.Result != "" && body.Result != "success" {
		return models.FXRates{}, fmt.Errorf("fx %s: %w: result %q", e.Base, ErrMalformedPayload, body.Result)
	}

	rates := models.FXRates{Base: e.Base, Rates: make(map[string]float64, len(e.Quotes))}
	for _, quote := range e.Quotes {
		quote = strings.ToUpper(quote)
		if rate, ok := body.Rates[quote]; ok && rate != nil {
			rates.Rates[quote] = *rate
		}
	}
	if len(rates.Rates) == 0 {
		return models.FXRates{}, fmt.Errorf("fx %s: %w: no configured quotes in rates", e.Base, ErrMalformedPayload)
	}
	return rates, nil
}
