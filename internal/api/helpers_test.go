package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"degiro-trader/internal/webapi"
)

// newTestTrader starts a server answering the login endpoint plus the given
// handler, then returns a logged-in, fully enriched trader pointing at it.
func newTestTrader(t *testing.T, clock func() time.Time, handler http.HandlerFunc) *Degiro {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/login/secure/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: webapi.SessionCookieName, Value: "sid"})
		json.NewEncoder(w).Encode(map[string]interface{}{"status": 0, "sessionId": "sid"})
	})
	if handler != nil {
		mux.Handle("/", handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	web := webapi.NewClient(
		webapi.WithBaseURL(srv.URL),
		webapi.WithHTTPClient(srv.Client()),
	)
	opts := []Option{}
	if clock != nil {
		opts = append(opts, WithClock(clock))
	}
	d := New(web, opts...)

	if err := d.Login(context.Background(), webapi.Credentials{Username: "user", Password: "pw"}); err != nil {
		t.Fatalf("test login failed: %v", err)
	}
	sess := d.Session()
	sess.Config = &webapi.SessionConfig{
		SessionID:        "sid",
		ClientID:         42,
		TradingURL:       srv.URL + "/trading/",
		ProductSearchURL: srv.URL + "/productsearch/",
		ReportingURL:     srv.URL + "/reporting/",
		ChartingURL:      srv.URL + "/charting/",
		RefinitivNewsURL: srv.URL + "/news/",
	}
	sess.Client = &webapi.ClientInfo{ID: 42, IntAccount: 123456, Username: "user"}
	return d
}

// productInfoHandler answers the products-info endpoint with a record per
// requested id found in known.
func productInfoHandler(t *testing.T, known map[string]string, calls *int) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/productsearch/v5/products/info" {
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		if calls != nil {
			*calls++
		}
		var ids []string
		json.NewDecoder(r.Body).Decode(&ids)
		data := make(map[string]interface{}, len(ids))
		for _, id := range ids {
			if name, ok := known[id]; ok {
				data[id] = map[string]interface{}{"id": id, "name": name, "currency": "EUR"}
			}
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": data})
	}
}
