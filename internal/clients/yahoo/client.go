// Package yahoo provides a client for the Yahoo Finance chart, spark,
// quoteSummary, and search endpoints.
package yahoo

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/stockdeck/stockdeck/internal/common"
	"github.com/stockdeck/stockdeck/internal/interfaces"
	"github.com/stockdeck/stockdeck/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// defaultGrowthRate is substituted when the source reports no earnings
// growth or a non-positive one.
const defaultGrowthRate = 0.05

// Client implements the QuoteClient interface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Yahoo Finance client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request and returns the raw body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "stockdeck/"+common.GetVersion())

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(body)
		if desc := gjson.GetBytes(body, "chart.error.description"); desc.Exists() {
			msg = desc.String()
		} else if desc := gjson.GetBytes(body, "finance.error.description"); desc.Exists() {
			msg = desc.String()
		}
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    msg,
			Endpoint:   path,
		}
	}

	return body, nil
}

// GetChart retrieves a single symbol's historical series with meta info.
func (c *Client) GetChart(ctx context.Context, symbol string, rng interfaces.ChartRange) (*models.ChartSeries, error) {
	params := url.Values{}
	params.Set("range", string(rng))
	params.Set("interval", rng.Interval())
	params.Set("includePrePost", "false")

	body, err := c.get(ctx, "/v8/finance/chart/"+url.PathEscape(symbol), params)
	if err != nil {
		return nil, err
	}

	if desc := gjson.GetBytes(body, "chart.error.description"); desc.Exists() && desc.String() != "" {
		return nil, fmt.Errorf("%s", desc.String())
	}

	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("no chart result for %s", symbol)
	}

	return parseSeries(symbol, result), nil
}

// GetSpark retrieves several symbols' series in one grouped request.
func (c *Client) GetSpark(ctx context.Context, symbols []string, rng interfaces.ChartRange) (map[string]*models.ChartSeries, error) {
	params := url.Values{}
	params.Set("symbols", strings.Join(symbols, ","))
	params.Set("range", string(rng))
	params.Set("interval", rng.Interval())

	body, err := c.get(ctx, "/v7/finance/spark", params)
	if err != nil {
		return nil, err
	}

	if desc := gjson.GetBytes(body, "spark.error.description"); desc.Exists() && desc.String() != "" {
		return nil, fmt.Errorf("%s", desc.String())
	}

	out := make(map[string]*models.ChartSeries, len(symbols))
	gjson.GetBytes(body, "spark.result").ForEach(func(_, item gjson.Result) bool {
		sym := item.Get("symbol").String()
		resp := item.Get("response.0")
		if sym == "" || !resp.Exists() {
			return true
		}
		out[strings.ToUpper(sym)] = parseSeries(strings.ToUpper(sym), resp)
		return true
	})

	return out, nil
}

// parseSeries converts one chart/spark result object into a ChartSeries.
// Slots the source reports as null become NaN bars.
func parseSeries(symbol string, result gjson.Result) *models.ChartSeries {
	series := &models.ChartSeries{
		Symbol:   symbol,
		Currency: result.Get("meta.currency").String(),
		Name:     result.Get("meta.shortName").String(),
	}

	timestamps := result.Get("timestamp").Array()
	opens := result.Get("indicators.quote.0.open").Array()
	closes := result.Get("indicators.quote.0.close").Array()

	series.Bars = make([]models.ChartBar, 0, len(timestamps))
	for i, ts := range timestamps {
		bar := models.ChartBar{
			Timestamp: time.Unix(ts.Int(), 0).UTC(),
			Open:      math.NaN(),
			Close:     math.NaN(),
		}
		if i < len(opens) && opens[i].Type == gjson.Number {
			bar.Open = opens[i].Float()
		}
		if i < len(closes) && closes[i].Type == gjson.Number {
			bar.Close = closes[i].Float()
		}
		series.Bars = append(series.Bars, bar)
	}

	return series
}

// GetFundamentals retrieves the valuation inputs for one symbol from the
// quoteSummary endpoint.
func (c *Client) GetFundamentals(ctx context.Context, symbol string) (*models.FundamentalsSnapshot, error) {
	params := url.Values{}
	params.Set("modules", "price,summaryDetail,defaultKeyStatistics,financialData")

	body, err := c.get(ctx, "/v10/finance/quoteSummary/"+url.PathEscape(symbol), params)
	if err != nil {
		return nil, err
	}

	if desc := gjson.GetBytes(body, "quoteSummary.error.description"); desc.Exists() && desc.String() != "" {
		return nil, fmt.Errorf("%s", desc.String())
	}

	result := gjson.GetBytes(body, "quoteSummary.result.0")
	if !result.Exists() {
		return nil, fmt.Errorf("no fundamentals for %s", symbol)
	}

	snapshot := &models.FundamentalsSnapshot{
		Symbol:             strings.ToUpper(symbol),
		Price:              result.Get("price.regularMarketPrice.raw").Float(),
		TrailingPE:         optionalFloat(result.Get("summaryDetail.trailingPE.raw")),
		TrailingEPS:        optionalFloat(result.Get("defaultKeyStatistics.trailingEps.raw")),
		DividendRate:       optionalFloat(result.Get("summaryDetail.dividendRate.raw")),
		EarningsGrowthRate: defaultGrowthRate,
		FreeCashFlow:       optionalFloat(result.Get("financialData.freeCashflow.raw")),
	}

	if g := result.Get("financialData.earningsGrowth.raw"); g.Type == gjson.Number && g.Float() > 0 {
		snapshot.EarningsGrowthRate = g.Float()
	}

	return snapshot, nil
}

// optionalFloat maps an absent or non-numeric field to nil.
func optionalFloat(r gjson.Result) *float64 {
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

// GetNews retrieves recent news items for a symbol or topic via the search
// endpoint.
func (c *Client) GetNews(ctx context.Context, query string, limit int) ([]models.NewsItem, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("newsCount", strconv.Itoa(limit))
	params.Set("quotesCount", "0")

	body, err := c.get(ctx, "/v1/finance/search", params)
	if err != nil {
		return nil, err
	}

	var news []models.NewsItem
	gjson.GetBytes(body, "news").ForEach(func(_, item gjson.Result) bool {
		news = append(news, models.NewsItem{
			Title:       item.Get("title").String(),
			Link:        item.Get("link").String(),
			Publisher:   item.Get("publisher").String(),
			PublishedAt: time.Unix(item.Get("providerPublishTime").Int(), 0).UTC(),
		})
		return true
	})

	c.logger.Debug().Int("items", len(news)).Str("query", query).Msg("Yahoo search returned news")

	return news, nil
}

// Ensure Client implements QuoteClient
var _ interfaces.QuoteClient = (*Client)(nil)
