package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	apierr "degiro-trader/internal/errors"
	"degiro-trader/internal/models"
)

func transactionsHandler(t *testing.T, known map[string]string) http.HandlerFunc {
	t.Helper()
	products := productInfoHandler(t, known, nil)
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reporting/v4/transactions":
			json.NewEncoder(w).Encode(map[string]interface{}{"data": []map[string]interface{}{
				{"id": 1, "productId": 11, "buysell": "B", "date": "2024-03-12T09:30:00+01:00", "quantity": 10, "price": 1.5, "total": -15},
				{"id": 2, "productId": 22, "buysell": "S", "date": "2024-03-13T14:00:00+01:00", "quantity": 5, "price": 99, "total": 495},
				{"id": 3, "productId": 11, "buysell": "B", "date": "2024-03-14T10:15:00+01:00", "quantity": 2, "price": 1.6, "total": -3.2},
			}})
		case "/productsearch/v5/products/info":
			products(w, r)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}
}

func TestGetTransactionsZipsProducts(t *testing.T) {
	d := newTestTrader(t, nil, transactionsHandler(t, map[string]string{
		"11": "Eleven",
		"22": "TwentyTwo",
	}))

	transactions, err := d.GetTransactions(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(transactions) != 3 {
		t.Fatalf("got %d transactions, want 3", len(transactions))
	}

	// Each row carries the product resolved for its own position.
	wantProducts := []string{"Eleven", "TwentyTwo", "Eleven"}
	for i, tx := range transactions {
		if tx.Product.Name != wantProducts[i] {
			t.Errorf("transaction %d: product %s, want %s", i, tx.Product.Name, wantProducts[i])
		}
	}

	if transactions[0].Side != models.OrderSideBuy || transactions[1].Side != models.OrderSideSell {
		t.Errorf("unexpected sides: %s / %s", transactions[0].Side, transactions[1].Side)
	}
	if got := transactions[0].Date; !got.Equal(time.Date(2024, 3, 12, 8, 30, 0, 0, time.UTC)) {
		t.Errorf("transaction 0 date = %v", got)
	}
}

func TestGetTransactionsUnresolvedProduct(t *testing.T) {
	// Product 22 is unknown: the whole call fails, no partial results.
	d := newTestTrader(t, nil, transactionsHandler(t, map[string]string{"11": "Eleven"}))

	transactions, err := d.GetTransactions(context.Background(), time.Time{}, time.Time{})
	var resErr *apierr.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if resErr.ProductID != "22" {
		t.Errorf("failing product = %s, want 22", resErr.ProductID)
	}
	if transactions != nil {
		t.Errorf("expected nil results, got %v", transactions)
	}
}

func TestGetTransactionsEmptyWindow(t *testing.T) {
	d := newTestTrader(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/reporting/v4/transactions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"data": []interface{}{}})
	})

	transactions, err := d.GetTransactions(context.Background(), time.Time{}, time.Time{})
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(transactions) != 0 {
		t.Errorf("expected no transactions, got %d", len(transactions))
	}
}
