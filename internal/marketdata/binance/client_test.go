package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AzizAkturin/Monte-Carlo-Risk-Engine/pkg/config"
)

func testClient(serverURL string) *Client {
	return NewClient(config.BinanceConfig{
		BaseURL:      serverURL,
		Timeout:      5 * time.Second,
		RateLimitRPS: 1000,
		MaxRetries:   2,
	}, nil)
}

// klineRow builds a raw kline row the way /api/v3/klines serializes one:
// timestamps as numbers, prices as strings.
func klineRow(openMS int64, close float64) []interface{} {
	closeStr := fmt.Sprintf("%.8f", close)
	return []interface{}{
		openMS, "1.0", "2.0", "0.5", closeStr, "1000.0",
		openMS + 86_399_999, "1000.0", 10, "500.0", "500.0", "0",
	}
}

func TestFetchKlines(t *testing.T) {
	day := int64(86_400_000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/klines", r.URL.Path)
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))

		// Out of order on purpose; the client sorts by open time.
		rows := [][]interface{}{
			klineRow(2*day, 102.5),
			klineRow(0, 100),
			klineRow(day, 101),
		}
		require.NoError(t, json.NewEncoder(w).Encode(rows))
	}))
	defer srv.Close()

	klines, err := testClient(srv.URL).FetchKlines(context.Background(), "BTCUSDT", "1d", 0, 0, 500)
	require.NoError(t, err)
	require.Len(t, klines, 3)

	assert.Equal(t, time.UnixMilli(0).UTC(), klines[0].OpenTime)
	assert.Equal(t, 100.0, klines[0].Close)
	assert.Equal(t, 101.0, klines[1].Close)
	assert.Equal(t, 102.5, klines[2].Close)
	assert.True(t, klines[0].OpenTime.Before(klines[1].OpenTime))
}

func TestFetchKlinesSkipsMalformedRows(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rows := []interface{}{
			klineRow(0, 100),
			[]interface{}{1.0, "1"},                                   // too short
			[]interface{}{"bad", "1", "1", "1", "100"},                // open time not a number
			[]interface{}{float64(86_400_000), "1", "1", "1", 100.0},  // close not a string
			[]interface{}{float64(86_400_000), "1", "1", "1", "abc"},  // close not parseable
			klineRow(172_800_000, 105),
		}
		require.NoError(t, json.NewEncoder(w).Encode(rows))
	}))
	defer srv.Close()

	klines, err := testClient(srv.URL).FetchKlines(context.Background(), "BTCUSDT", "1d", 0, 0, 500)
	require.NoError(t, err)
	require.Len(t, klines, 2)
	assert.Equal(t, 100.0, klines[0].Close)
	assert.Equal(t, 105.0, klines[1].Close)
}

func TestFetchKlinesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":-1121,"msg":"Invalid symbol."}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchKlines(context.Background(), "NOPE", "1d", 0, 0, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOPE")
}

func TestFetchDailyClosesPagination(t *testing.T) {
	day := int64(86_400_000)
	var calls int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		start, _ := json.Number(r.URL.Query().Get("startTime")).Int64()

		// First page fills the cap, second returns the remainder.
		var rows [][]interface{}
		switch calls {
		case 1:
			for i := int64(0); i < maxKlinesPerRequest; i++ {
				rows = append(rows, klineRow(start+i*day, 100+float64(i)))
			}
		default:
			rows = append(rows, klineRow(start, 2000), klineRow(start+day, 2001))
		}
		require.NoError(t, json.NewEncoder(w).Encode(rows))
	}))
	defer srv.Close()

	klines, err := testClient(srv.URL).FetchDailyCloses(context.Background(), "BTCUSDT", 1002)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, klines, 1002)
	assert.Equal(t, 2001.0, klines[len(klines)-1].Close)
}

func TestFetchDailyClosesTrimsToWindow(t *testing.T) {
	day := int64(86_400_000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var rows [][]interface{}
		for i := int64(0); i < 10; i++ {
			rows = append(rows, klineRow(i*day, float64(i)))
		}
		require.NoError(t, json.NewEncoder(w).Encode(rows))
	}))
	defer srv.Close()

	klines, err := testClient(srv.URL).FetchDailyCloses(context.Background(), "BTCUSDT", 5)
	require.NoError(t, err)
	require.Len(t, klines, 5)
	assert.Equal(t, 5.0, klines[0].Close)
	assert.Equal(t, 9.0, klines[len(klines)-1].Close)
}

func TestFetchDailyClosesTooFewDays(t *testing.T) {
	_, err := testClient("http://unused").FetchDailyCloses(context.Background(), "BTCUSDT", 1)
	assert.Error(t, err)
}

func TestLoadPriceSetAlignsSymbols(t *testing.T) {
	day := int64(86_400_000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")

		// BTCUSDT has days 0..3; ETHUSDT misses day 1.
		var rows [][]interface{}
		switch symbol {
		case "BTCUSDT":
			for i := int64(0); i < 4; i++ {
				rows = append(rows, klineRow(i*day, 100+float64(i)))
			}
		case "ETHUSDT":
			for _, i := range []int64{0, 2, 3} {
				rows = append(rows, klineRow(i*day, 50+float64(i)))
			}
		}
		require.NoError(t, json.NewEncoder(w).Encode(rows))
	}))
	defer srv.Close()

	set, err := testClient(srv.URL).LoadPriceSet(context.Background(), []string{"BTCUSDT", "ETHUSDT"}, 10)
	require.NoError(t, err)

	assert.Equal(t, []string{"BTCUSDT", "ETHUSDT"}, set.Symbols)
	require.Len(t, set.Times, 3)

	rows, cols := set.Prices.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 2, cols)

	// Day 1 is dropped; rows stay chronological.
	assert.Equal(t, time.UnixMilli(0).UTC(), set.Times[0])
	assert.Equal(t, time.UnixMilli(2*day).UTC(), set.Times[1])
	assert.Equal(t, 100.0, set.Prices.At(0, 0))
	assert.Equal(t, 50.0, set.Prices.At(0, 1))
	assert.Equal(t, 103.0, set.Prices.At(2, 0))
	assert.Equal(t, 53.0, set.Prices.At(2, 1))
}

func TestLoadPriceSetErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// A single candle per symbol leaves fewer than 2 common rows.
		require.NoError(t, json.NewEncoder(w).Encode([][]interface{}{klineRow(0, 100)}))
	}))
	defer srv.Close()

	client := testClient(srv.URL)

	_, err := client.LoadPriceSet(context.Background(), nil, 10)
	assert.Error(t, err)

	_, err = client.LoadPriceSet(context.Background(), []string{"BTCUSDT"}, 10)
	assert.Error(t, err)
}
