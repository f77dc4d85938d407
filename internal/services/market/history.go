package market

import (
	"context"
	"math"

	"github.com/stockdeck/stockdeck/internal/cache"
	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

// Time layouts for the wire format: clock times for the minute-interval
// one-day range, calendar dates otherwise.
const (
	intradayTimeLayout = "15:04"
	dailyTimeLayout    = "2006-01-02"
)

// GetPriceSeries returns the wire-format price history for one ticker.
// Missing prices are carried as empty-string slots, never dropped.
func (s *Service) GetPriceSeries(ctx context.Context, ticker string, rng interfaces.ChartRange) (*models.PriceSeries, error) {
	symbol := canonical(ticker)
	if symbol == "" {
		return nil, &models.ValidationError{Message: "Ticker is required"}
	}
	if !rng.Valid() {
		return nil, &models.ValidationError{Message: "Range must be one of 1d, 6mo, 1y, 2y"}
	}

	key := cache.Key("chart", symbol, string(rng), rng.Interval())
	v, err := s.memo.Do(key, common.FreshnessQuote, func() (interface{}, error) {
		return s.client.GetChart(ctx, symbol, rng)
	})
	if err != nil {
		return nil, err
	}

	series := v.(*models.ChartSeries)

	layout := dailyTimeLayout
	if rng == interfaces.Range1D {
		layout = intradayTimeLayout
	}

	out := &models.PriceSeries{
		Times:  make([]string, 0, len(series.Bars)),
		Prices: make([]models.SeriesPrice, 0, len(series.Bars)),
	}
	for _, bar := range series.Bars {
		out.Times = append(out.Times, bar.Timestamp.Format(layout))
		out.Prices = append(out.Prices, models.SeriesPrice{
			Valid: !math.IsNaN(bar.Close),
			Value: bar.Close,
		})
	}

	return out, nil
}
