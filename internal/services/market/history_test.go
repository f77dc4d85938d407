package market

import (
	"context"
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

func historyClient(bars []models.ChartBar) *mockQuoteClient {
	return &mockQuoteClient{
		getChartFunc: func(_ context.Context, symbol string, _ interfaces.ChartRange) (*models.ChartSeries, error) {
			return &models.ChartSeries{Symbol: symbol, Bars: bars}, nil
		},
	}
}

func TestGetPriceSeriesIntradayLayout(t *testing.T) {
	day := time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC)
	client := historyClient([]models.ChartBar{
		{Timestamp: day, Open: 100, Close: 100.5},
		{Timestamp: day.Add(5 * time.Minute), Open: 100.5, Close: math.NaN()},
		{Timestamp: day.Add(10 * time.Minute), Open: 100.6, Close: 101},
	})
	svc := newTestService(client, nil, nil)

	series, err := svc.GetPriceSeries(context.Background(), "aapl", interfaces.Range1D)
	require.NoError(t, err)

	assert.Equal(t, []string{"14:30", "14:35", "14:40"}, series.Times)
	require.Len(t, series.Prices, 3)
	assert.True(t, series.Prices[0].Valid)
	assert.False(t, series.Prices[1].Valid, "missing close keeps its slot")
	assert.True(t, series.Prices[2].Valid)
}

func TestGetPriceSeriesDailyLayout(t *testing.T) {
	client := historyClient([]models.ChartBar{
		{Timestamp: time.Date(2026, 2, 27, 21, 0, 0, 0, time.UTC), Close: 10},
		{Timestamp: time.Date(2026, 2, 28, 21, 0, 0, 0, time.UTC), Close: 11},
	})
	svc := newTestService(client, nil, nil)

	for _, rng := range []interfaces.ChartRange{interfaces.Range6Mo, interfaces.Range1Y, interfaces.Range2Y} {
		series, err := svc.GetPriceSeries(context.Background(), "AAPL", rng)
		require.NoError(t, err)
		assert.Equal(t, []string{"2026-02-27", "2026-02-28"}, series.Times, "range %s", rng)
	}
}

func TestGetPriceSeriesWireFormat(t *testing.T) {
	client := historyClient([]models.ChartBar{
		{Timestamp: time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC), Close: 231.59},
		{Timestamp: time.Date(2026, 8, 28, 14, 35, 0, 0, time.UTC), Close: math.NaN()},
	})
	svc := newTestService(client, nil, nil)

	series, err := svc.GetPriceSeries(context.Background(), "AAPL", interfaces.Range1D)
	require.NoError(t, err)

	data, err := json.Marshal(series)
	require.NoError(t, err)
	assert.JSONEq(t, `{"times":["14:30","14:35"],"prices":[231.59,""]}`, string(data))
}

func TestGetPriceSeriesInvalidRange(t *testing.T) {
	client := &mockQuoteClient{}
	svc := newTestService(client, nil, nil)

	for _, rng := range []interfaces.ChartRange{"", "5d", "max", "1D"} {
		_, err := svc.GetPriceSeries(context.Background(), "AAPL", rng)
		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr, "range %q", rng)
	}
	assert.Equal(t, 0, client.chartCalls)
}

func TestGetPriceSeriesEmptyTicker(t *testing.T) {
	svc := newTestService(&mockQuoteClient{}, nil, nil)

	_, err := svc.GetPriceSeries(context.Background(), "  ", interfaces.Range1D)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestGetPriceSeriesCachedPerRange(t *testing.T) {
	client := historyClient([]models.ChartBar{
		{Timestamp: time.Now(), Close: 1},
	})
	svc := newTestService(client, nil, nil)

	ctx := context.Background()
	_, err := svc.GetPriceSeries(ctx, "AAPL", interfaces.Range1D)
	require.NoError(t, err)
	_, err = svc.GetPriceSeries(ctx, "AAPL", interfaces.Range1D)
	require.NoError(t, err)
	assert.Equal(t, 1, client.chartCalls, "same ticker and range share one entry")

	_, err = svc.GetPriceSeries(ctx, "AAPL", interfaces.Range1Y)
	require.NoError(t, err)
	assert.Equal(t, 2, client.chartCalls, "a different range is a different entry")
}
