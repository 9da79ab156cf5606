package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"degiro-trader/internal/models"
)

func portfolioPayload() map[string]interface{} {
	row := func(id interface{}, fields []map[string]interface{}) map[string]interface{} {
		return map[string]interface{}{"id": id, "name": "positionrow", "isAdded": true, "value": fields}
	}
	field := func(name string, value interface{}) map[string]interface{} {
		return map[string]interface{}{"name": name, "isAdded": true, "value": value}
	}

	return map[string]interface{}{
		"portfolio": map[string]interface{}{
			"name":    "portfolio",
			"isAdded": true,
			"value": []map[string]interface{}{
				row(331868, []map[string]interface{}{
					field("positionType", "PRODUCT"),
					field("size", 10),
					field("price", 12.5),
					field("value", 125.0),
					field("breakEvenPrice", 11.8),
					field("plBase", []map[string]interface{}{field("EUR", -7.0)}),
				}),
				row("EUR", []map[string]interface{}{
					field("positionType", "CASH"),
					field("size", 250.5),
					field("price", 1),
					field("value", 250.5),
				}),
			},
		},
		"totalPortfolio": map[string]interface{}{
			"name":    "totalPortfolio",
			"isAdded": true,
			"value": []map[string]interface{}{
				field("totalCash", 375.5),
				field("degiroCash", 375.5),
				field("freeSpaceNew", []map[string]interface{}{field("EUR", 300.0)}),
				field("marginCallStatus", "NO_MARGIN_CALL"),
			},
		},
	}
}

func TestGetPortfolio(t *testing.T) {
	d := newTestTrader(t, nil, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/trading/v5/update/123456" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("portfolio") != "0" || q.Get("totalPortfolio") != "0" {
			t.Errorf("missing section flags in query: %v", q)
		}
		json.NewEncoder(w).Encode(portfolioPayload())
	})

	portfolio, err := d.GetPortfolio(context.Background())
	if err != nil {
		t.Fatalf("GetPortfolio failed: %v", err)
	}
	if len(portfolio.Positions) != 2 {
		t.Fatalf("got %d positions, want 2", len(portfolio.Positions))
	}

	product := portfolio.Positions[0]
	if product.ID != "331868" || product.PositionType != models.PositionTypeProduct {
		t.Errorf("unexpected product position: %+v", product)
	}
	if product.Size != 10 || product.Value != 125.0 || product.BreakEvenPrice != 11.8 {
		t.Errorf("unexpected product figures: %+v", product)
	}
	if product.PlBase["EUR"] != -7.0 {
		t.Errorf("plBase = %v", product.PlBase)
	}

	cash := portfolio.Positions[1]
	if cash.ID != "EUR" || cash.PositionType != models.PositionTypeCash || cash.Value != 250.5 {
		t.Errorf("unexpected cash position: %+v", cash)
	}

	if portfolio.Total.TotalCash != 375.5 {
		t.Errorf("totalCash = %f", portfolio.Total.TotalCash)
	}
	if portfolio.Total.FreeSpaceNew["EUR"] != 300.0 {
		t.Errorf("freeSpaceNew = %v", portfolio.Total.FreeSpaceNew)
	}
	if portfolio.Total.MarginCallStatus != "NO_MARGIN_CALL" {
		t.Errorf("marginCallStatus = %s", portfolio.Total.MarginCallStatus)
	}
}

func TestGetPortfolioMissingRequiredField(t *testing.T) {
	d := newTestTrader(t, nil, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"portfolio": map[string]interface{}{
				"name":    "portfolio",
				"isAdded": true,
				"value": []map[string]interface{}{
					{"id": 1, "name": "positionrow", "isAdded": true, "value": []map[string]interface{}{
						{"name": "positionType", "isAdded": true, "value": "PRODUCT"},
					}},
				},
			},
		})
	})

	// A row without size/price/value is rejected rather than zero-filled.
	if _, err := d.GetPortfolio(context.Background()); err == nil {
		t.Fatal("expected error for incomplete position row")
	}
}

func TestGetPortfolioEmpty(t *testing.T) {
	d := newTestTrader(t, nil, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{})
	})

	portfolio, err := d.GetPortfolio(context.Background())
	if err != nil {
		t.Fatalf("GetPortfolio failed: %v", err)
	}
	if len(portfolio.Positions) != 0 {
		t.Errorf("expected no positions, got %d", len(portfolio.Positions))
	}
}
