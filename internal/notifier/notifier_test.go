package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"QuarterChart/internal/model"
)

func testSeries(n int) model.PriceSeries {
	base := time.Date(2023, 4, 3, 0, 0, 0, 0, time.UTC)
	s := make(model.PriceSeries, n)
	for i := range s {
		c := 100 + float64(i)
		s[i] = model.PricePoint{Date: base.AddDate(0, 0, i), Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return s
}

func TestFormatSeriesSummary(t *testing.T) {
	out := FormatSeriesSummary("AAPL", 2023, 2, testSeries(12))
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "2023 Q2")
	assert.Contains(t, out, "Bars: 12")
	assert.Contains(t, out, "(+11.0%)")
	assert.Contains(t, out, "SMA10: 106.50")

	short := FormatSeriesSummary("AAPL", 2023, 2, testSeries(3))
	assert.NotContains(t, short, "SMA10")

	assert.Contains(t, FormatSeriesSummary("AAPL", 2023, 2, nil), "No bars")
}

func TestFormatSubmission_EscapesNotes(t *testing.T) {
	p := 12.5
	sub := model.NewSubmission("AAPL", 2023, 2, [3]model.Annotation{
		{Text: "<b>beat</b>", Percent: &p},
		{},
		{Text: "guide"},
	}, testSeries(2))

	out := FormatSubmission(sub)
	assert.Contains(t, out, "&lt;b&gt;beat&lt;/b&gt; (12.5%)")
	assert.Contains(t, out, "3. guide")
	assert.NotContains(t, out, "2. ")
	assert.Contains(t, out, sub.ID)
}

func TestFormatRecent(t *testing.T) {
	assert.Equal(t, "No submissions yet", FormatRecent(nil))
	out := FormatRecent([]model.Summary{{Ticker: "MSFT", Year: 2022, Quarter: 4, Bars: 60}})
	assert.Contains(t, out, "MSFT 2022 Q4 · 60 bars")
}

func TestSendWithRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottoken/sendMessage", r.URL.Path)
		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "42", payload["chat_id"])
		assert.Equal(t, "HTML", payload["parse_mode"])
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	tn.RetryUnit = time.Millisecond

	require.NoError(t, tn.SendWithRetry(context.Background(), "hi", 2))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSendWithRetry_Exhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL
	tn.RetryUnit = time.Millisecond

	err := tn.SendWithRetry(context.Background(), "hi", 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all 2 retries exhausted")
}

func TestPollOnce(t *testing.T) {
	var sent []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bottoken/getUpdates":
			assert.Equal(t, "7", r.URL.Query().Get("offset"))
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /recent "}},
				{"update_id":8},
				{"update_id":9,"message":{"text":"/noop"}}
			]}`))
		case "/bottoken/sendMessage":
			var payload map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			sent = append(sent, payload["text"])
			w.Write([]byte(`{"ok":true}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("token", "42", "")
	tn.APIBase = srv.URL

	var got []string
	next, err := tn.pollOnce(context.Background(), srv.Client(), 7, func(_ context.Context, cmd string) string {
		got = append(got, cmd)
		if cmd == "/recent" {
			return "reply"
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/recent", "/noop"}, got)
	assert.Equal(t, []string{"reply"}, sent)
}
