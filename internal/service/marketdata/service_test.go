package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	drepo "PortfolioOne/internal/domain/repository"
	"PortfolioOne/internal/service/ratelimit"
	"PortfolioOne/pkg/cache"
	xhttp "PortfolioOne/pkg/http"
	applogger "PortfolioOne/pkg/logger"
)

type noopMetrics struct{}

func (noopMetrics) RecordEvaluation(string)       {}
func (noopMetrics) RecordFetchError(string)       {}
func (noopMetrics) SetRegime(string)              {}
func (noopMetrics) SetDrawdown(float64)           {}
func (noopMetrics) SetIndicator(string, float64)  {}
func (noopMetrics) RecordLatency(string, float64) {}

var _ drepo.Metrics = noopMetrics{}

func chartJSON(closes []float64) string {
	base := time.Date(2024, 1, 1, 14, 30, 0, 0, time.UTC)
	ts := make([]string, len(closes))
	cs := make([]string, len(closes))
	for i, c := range closes {
		ts[i] = fmt.Sprintf("%d", base.AddDate(0, 0, i).Unix())
		cs[i] = fmt.Sprintf("%v", c)
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"close":[%s]}]}}]}}`,
		strings.Join(ts, ","), strings.Join(cs, ","))
}

func newTestService(t *testing.T, handler http.Handler) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log, err := applogger.New(&applogger.Config{Level: "error", Format: "console", Output: "stdout"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	client := xhttp.NewClient(xhttp.WithTimeout(2 * time.Second))
	yahoo := NewYahooClient(client, srv.URL+"/chart", "5y", "1d")
	fred := NewFredClient(client, srv.URL+"/fred", "BAMLC0A4CBBB", "")

	svc := NewService(log, yahoo, fred, cache.NewMemoryCache(), ratelimit.New(), noopMetrics{}, Config{
		IndexTicker: "URTH",
		VolTicker:   "VIXTEST",
		CacheTTL:    time.Minute,
		ChartPoints: 504,
	})
	return svc, srv
}

func TestFetch_AssemblesSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chart/URTH", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chartJSON([]float64{100, 120, 150, 90, 95}))
	})
	mux.HandleFunc("/chart/VIXTEST", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chartJSON([]float64{18, 25}))
	})
	svc, _ := newTestService(t, mux)

	md, err := svc.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if md.Drawdown.ATH != 150 || md.Drawdown.CurrentPrice != 95 {
		t.Fatalf("drawdown snapshot = %+v", md.Drawdown)
	}
	if md.Volatility == nil || *md.Volatility != 25 {
		t.Fatalf("volatility = %v", md.Volatility)
	}
	// no FRED key: spread estimated from the vix level
	want := 0.5 + 25*0.09
	if md.CreditSpread == nil || *md.CreditSpread != want {
		t.Fatalf("credit spread = %v, want %v", md.CreditSpread, want)
	}
	if len(md.PriceChart) != 5 || len(md.DrawdownChart) != 5 {
		t.Fatalf("chart lengths = %d/%d", len(md.PriceChart), len(md.DrawdownChart))
	}
	if md.LastUpdated == "" {
		t.Fatal("last_updated empty")
	}
}

func TestFetch_UsesCache(t *testing.T) {
	var hits int64
	mux := http.NewServeMux()
	mux.HandleFunc("/chart/", func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt64(&hits, 1)
		fmt.Fprint(w, chartJSON([]float64{100, 110}))
	})
	svc, _ := newTestService(t, mux)

	ctx := context.Background()
	if _, err := svc.Fetch(ctx); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	first := atomic.LoadInt64(&hits)
	if _, err := svc.Fetch(ctx); err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if got := atomic.LoadInt64(&hits); got != first {
		t.Fatalf("cache miss: upstream hit %d times, want %d", got, first)
	}
}

func TestFetch_UpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chart/", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	})
	svc, _ := newTestService(t, mux)

	_, err := svc.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "market data unavailable") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetch_LivePriceOverlay(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chart/URTH", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chartJSON([]float64{100, 150, 95}))
	})
	mux.HandleFunc("/chart/VIXTEST", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chartJSON([]float64{18, 20}))
	})
	svc, _ := newTestService(t, mux)
	ctx := context.Background()

	if _, err := svc.Fetch(ctx); err != nil {
		t.Fatalf("fetch: %v", err)
	}

	svc.SetLivePrice(120, time.Now())
	md, err := svc.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch with live: %v", err)
	}
	if md.Drawdown.CurrentPrice != 120 {
		t.Fatalf("current price = %v, want live 120", md.Drawdown.CurrentPrice)
	}
	wantDD := (120.0 - 150.0) / 150.0 * 100
	if md.Drawdown.DrawdownPct != wantDD {
		t.Fatalf("drawdown = %v, want %v", md.Drawdown.DrawdownPct, wantDD)
	}

	// a live tick above the daily ATH becomes the new high
	svc.SetLivePrice(200, time.Now())
	md, err = svc.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch with live high: %v", err)
	}
	if md.Drawdown.ATH != 200 || md.Drawdown.DrawdownPct != 0 {
		t.Fatalf("live high snapshot = %+v", md.Drawdown)
	}
}

func TestFetch_StaleTickNotServedFromCache(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chart/URTH", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chartJSON([]float64{100, 150, 95}))
	})
	mux.HandleFunc("/chart/VIXTEST", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, chartJSON([]float64{18, 20}))
	})
	svc, _ := newTestService(t, mux)
	ctx := context.Background()

	// a fresh tick applies, including when the miss path populates the cache
	svc.SetLivePrice(200, time.Now())
	md, err := svc.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if md.Drawdown.CurrentPrice != 200 || md.Drawdown.ATH != 200 {
		t.Fatalf("fresh tick snapshot = %+v", md.Drawdown)
	}

	// once the tick is stale the cached snapshot must be the daily closes,
	// untouched by the earlier overlay
	svc.SetLivePrice(200, time.Now().Add(-20*time.Minute))
	md, err = svc.Fetch(ctx)
	if err != nil {
		t.Fatalf("fetch after stale: %v", err)
	}
	if md.Drawdown.CurrentPrice != 95 || md.Drawdown.ATH != 150 {
		t.Fatalf("stale tick leaked into cached snapshot: current=%v ath=%v, want 95/150",
			md.Drawdown.CurrentPrice, md.Drawdown.ATH)
	}
	wantDD := (95.0 - 150.0) / 150.0 * 100
	if md.Drawdown.DrawdownPct != wantDD {
		t.Fatalf("drawdown = %v, want %v", md.Drawdown.DrawdownPct, wantDD)
	}
}

func TestYahooClient_SkipsNullCloses(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/chart/URTH", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1704120600,1704207000,1704293400],"indicators":{"quote":[{"close":[100,null,110]}]}}]}}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := xhttp.NewClient(xhttp.WithTimeout(2 * time.Second))
	yahoo := NewYahooClient(client, srv.URL+"/chart", "5y", "1d")

	series, err := yahoo.History(context.Background(), "URTH")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(series) != 2 || series[0].Close != 100 || series[1].Close != 110 {
		t.Fatalf("unexpected series: %+v", series)
	}
}
