// Package binance fetches daily close prices from the Binance Spot public
// market data API and aligns multiple symbols on common observation times.
package binance

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/config"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/httputil"
	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/logger"
)

// maxKlinesPerRequest is the Binance /api/v3/klines page size cap.
const maxKlinesPerRequest = 1000

// Client talks to the Binance Spot public endpoints.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a Binance client from config.
func NewClient(cfg config.BinanceConfig, log *logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		httpClient: httputil.New(log, httputil.Options{
			Timeout:      cfg.Timeout,
			RateLimitRPS: cfg.RateLimitRPS,
			MaxRetries:   cfg.MaxRetries,
		}),
		logger:  log,
		baseURL: cfg.BaseURL,
	}
}

// Kline is one candle reduced to what the statistics fit needs.
type Kline struct {
	OpenTime time.Time
	Close    float64
}

// FetchKlines fetches one page of candles. startMS/endMS of zero are
// omitted from the request.
func (c *Client) FetchKlines(ctx context.Context, symbol, interval string, startMS, endMS int64, limit int) ([]Kline, error) {
	if limit <= 0 || limit > maxKlinesPerRequest {
		limit = maxKlinesPerRequest
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))
	if startMS > 0 {
		params.Set("startTime", strconv.FormatInt(startMS, 10))
	}
	if endMS > 0 {
		params.Set("endTime", strconv.FormatInt(endMS, 10))
	}

	// Kline row layout: 0 open time, 1 open, 2 high, 3 low, 4 close,
	// 5 volume, 6 close time, ... Numbers arrive as JSON strings except
	// the timestamps.
	var raw [][]interface{}
	reqURL := fmt.Sprintf("%s/api/v3/klines?%s", c.baseURL, params.Encode())
	if err := c.httpClient.GetJSON(ctx, reqURL, &raw); err != nil {
		return nil, fmt.Errorf("fetch klines for %s: %w", symbol, err)
	}

	klines := make([]Kline, 0, len(raw))
	for _, row := range raw {
		if len(row) < 5 {
			continue
		}
		openMS, ok := row[0].(float64)
		if !ok {
			continue
		}
		closeStr, ok := row[4].(string)
		if !ok {
			continue
		}
		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			continue
		}
		klines = append(klines, Kline{
			OpenTime: time.UnixMilli(int64(openMS)).UTC(),
			Close:    closePrice,
		})
	}

	sort.Slice(klines, func(i, j int) bool { return klines[i].OpenTime.Before(klines[j].OpenTime) })
	return klines, nil
}

// FetchDailyCloses pulls the last `days` daily closes for a symbol,
// paginating by startTime when the window exceeds one page.
func (c *Client) FetchDailyCloses(ctx context.Context, symbol string, days int) ([]Kline, error) {
	if days < 2 {
		return nil, fmt.Errorf("need at least 2 days of history, got %d", days)
	}

	start := time.Now().UTC().AddDate(0, 0, -days)
	startMS := start.UnixMilli()

	var all []Kline
	for {
		page, err := c.FetchKlines(ctx, symbol, "1d", startMS, 0, maxKlinesPerRequest)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		if len(page) < maxKlinesPerRequest {
			break
		}
		startMS = page[len(page)-1].OpenTime.UnixMilli() + 1
	}

	if len(all) > days {
		all = all[len(all)-days:]
	}

	c.logger.WithFields(map[string]interface{}{
		"symbol": symbol,
		"count":  len(all),
	}).Debug("Fetched daily closes")
	return all, nil
}

// PriceSet is close prices of several symbols aligned on common open
// times, in chronological order.
type PriceSet struct {
	Symbols []string
	Times   []time.Time
	Prices  *mat.Dense // rows: observations, cols: symbols
}

// LoadPriceSet fetches daily closes for every symbol and keeps only the
// observation times present for all of them.
func (c *Client) LoadPriceSet(ctx context.Context, symbols []string, days int) (*PriceSet, error) {
	if len(symbols) == 0 {
		return nil, fmt.Errorf("no symbols given")
	}

	bySymbol := make([]map[int64]float64, len(symbols))
	for i, sym := range symbols {
		klines, err := c.FetchDailyCloses(ctx, sym, days)
		if err != nil {
			return nil, err
		}
		m := make(map[int64]float64, len(klines))
		for _, k := range klines {
			m[k.OpenTime.UnixMilli()] = k.Close
		}
		bySymbol[i] = m
	}

	var common []int64
	for ts := range bySymbol[0] {
		shared := true
		for _, m := range bySymbol[1:] {
			if _, ok := m[ts]; !ok {
				shared = false
				break
			}
		}
		if shared {
			common = append(common, ts)
		}
	}
	if len(common) < 2 {
		return nil, fmt.Errorf("only %d common observations across %v", len(common), symbols)
	}
	sort.Slice(common, func(i, j int) bool { return common[i] < common[j] })

	prices := mat.NewDense(len(common), len(symbols), nil)
	times := make([]time.Time, len(common))
	for r, ts := range common {
		times[r] = time.UnixMilli(ts).UTC()
		for cIdx, m := range bySymbol {
			prices.Set(r, cIdx, m[ts])
		}
	}

	return &PriceSet{
		Symbols: append([]string(nil), symbols...),
		Times:   times,
		Prices:  prices,
	}, nil
}
