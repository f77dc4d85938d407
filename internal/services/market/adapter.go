// Package market aggregates quotes, ticker sets, and news into the views
// served by the HTTP layer.
package market

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// Adapter normalizes quote-source responses into per-symbol QuoteResult
// values. One ticker's failure never fails the batch: provider errors are
// captured verbatim as error results.
type Adapter struct {
	client   interfaces.QuoteClient
	logger   *common.Logger
	delayMin time.Duration
	delayMax time.Duration
	sleep    func(time.Duration) // injectable for testing
}

// NewAdapter creates a quote source adapter. delayMin/delayMax bound the
// inter-symbol throttle applied while processing a batched fetch.
func NewAdapter(client interfaces.QuoteClient, delayMin, delayMax time.Duration, logger *common.Logger) *Adapter {
	return &Adapter{
		client:   client,
		logger:   logger,
		delayMin: delayMin,
		delayMax: delayMax,
		sleep:    time.Sleep,
	}
}

// FetchQuotes retrieves quotes for the given symbols. For more than one
// symbol it issues a single grouped request, falling back to one call per
// symbol when the grouped endpoint fails. The result always contains an
// entry for every requested symbol.
func (a *Adapter) FetchQuotes(ctx context.Context, symbols []string, rng interfaces.ChartRange) map[string]models.QuoteResult {
	if len(symbols) == 0 {
		return map[string]models.QuoteResult{}
	}

	if len(symbols) == 1 {
		sym := symbols[0]
		return map[string]models.QuoteResult{sym: a.fetchOne(ctx, sym, rng)}
	}

	results := make(map[string]models.QuoteResult, len(symbols))

	grouped, err := a.client.GetSpark(ctx, symbols, rng)
	if err != nil {
		a.logger.Warn().Err(err).Int("symbols", len(symbols)).Msg("Grouped fetch failed, falling back to per-symbol calls")
		for i, sym := range symbols {
			if i > 0 {
				a.throttle()
			}
			results[sym] = a.fetchOne(ctx, sym, rng)
		}
		return results
	}

	for i, sym := range symbols {
		if i > 0 {
			a.throttle()
		}
		series, ok := grouped[sym]
		if !ok || series.Empty() {
			results[sym] = models.BadQuote(sym, "No data available")
			continue
		}
		results[sym] = quoteFromSeries(series)
	}

	return results
}

// fetchOne retrieves and normalizes a single symbol.
func (a *Adapter) fetchOne(ctx context.Context, symbol string, rng interfaces.ChartRange) models.QuoteResult {
	series, err := a.client.GetChart(ctx, symbol, rng)
	if err != nil {
		return models.BadQuote(symbol, err.Error())
	}
	if series.Empty() {
		return models.BadQuote(symbol, "No data available")
	}
	return quoteFromSeries(series)
}

// throttle sleeps a random interval within [delayMin, delayMax] between
// per-symbol processing steps of a batched fetch. Rate-limit spacing, not
// an accidental delay.
func (a *Adapter) throttle() {
	if a.delayMax <= 0 {
		return
	}
	d := a.delayMin
	if a.delayMax > a.delayMin {
		d += rand.N(a.delayMax - a.delayMin)
	}
	a.sleep(d)
}

// quoteFromSeries builds a Quote from a non-empty series. Change is
// latest close minus period open; percent change is relative to the open.
func quoteFromSeries(series *models.ChartSeries) models.QuoteResult {
	latest := math.NaN()
	for i := len(series.Bars) - 1; i >= 0; i-- {
		if !math.IsNaN(series.Bars[i].Close) {
			latest = series.Bars[i].Close
			break
		}
	}

	open := math.NaN()
	for _, bar := range series.Bars {
		if !math.IsNaN(bar.Open) {
			open = bar.Open
			break
		}
		if !math.IsNaN(bar.Close) {
			open = bar.Close
			break
		}
	}

	if math.IsNaN(latest) {
		return models.BadQuote(series.Symbol, "No data available")
	}

	quote := &models.Quote{
		Symbol:      series.Symbol,
		Price:       models.Round2(latest),
		Currency:    series.Currency,
		DisplayName: series.Name,
	}
	if quote.Currency == "" {
		quote.Currency = "USD"
	}
	if quote.DisplayName == "" {
		quote.DisplayName = series.Symbol
	}

	if !math.IsNaN(open) && open != 0 {
		quote.Change = models.Round2(latest - open)
		quote.ChangePct = models.Round2((latest - open) / open * 100)
	}

	return models.GoodQuote(quote)
}
