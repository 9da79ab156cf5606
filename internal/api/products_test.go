package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apierr "degiro-trader/internal/errors"
)

func TestResolveProductsOrderAndDedupe(t *testing.T) {
	var calls int
	d := newTestTrader(t, nil, productInfoHandler(t, map[string]string{
		"1": "One",
		"2": "Two",
	}, &calls))

	it := d.ResolveProducts(context.Background(), []string{"2", "1", "2"})
	if it.Len() != 3 {
		t.Errorf("Len = %d, want 3", it.Len())
	}

	var names []string
	for it.Next() {
		p, err := it.Product()
		if err != nil {
			t.Fatalf("Product failed: %v", err)
		}
		names = append(names, p.Name)
	}
	if err := it.Err(); err != nil {
		t.Fatalf("iterator failed: %v", err)
	}

	want := []string{"Two", "One", "Two"}
	if len(names) != len(want) {
		t.Fatalf("got %d products, want %d", len(names), len(want))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("position %d: got %s, want %s", i, names[i], want[i])
		}
	}

	// Duplicated ids collapse into one network call.
	if calls != 1 {
		t.Errorf("expected 1 batched call, got %d", calls)
	}
}

func TestResolveProductsPerPositionError(t *testing.T) {
	d := newTestTrader(t, nil, productInfoHandler(t, map[string]string{"1": "One"}, nil))

	it := d.ResolveProducts(context.Background(), []string{"1", "404", "1"})

	if !it.Next() {
		t.Fatal("expected first position")
	}
	if _, err := it.Product(); err != nil {
		t.Errorf("position 0 should resolve, got %v", err)
	}

	if !it.Next() {
		t.Fatal("expected second position")
	}
	_, err := it.Product()
	var resErr *apierr.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
	if resErr.ProductID != "404" || resErr.Position != 1 {
		t.Errorf("unexpected error detail: %+v", resErr)
	}

	// A failing position does not poison its siblings.
	if !it.Next() {
		t.Fatal("expected third position")
	}
	if _, err := it.Product(); err != nil {
		t.Errorf("position 2 should resolve, got %v", err)
	}
	if it.Next() {
		t.Error("iterator should be exhausted")
	}
	if err := it.Err(); err != nil {
		t.Errorf("no batch error expected, got %v", err)
	}
}

func TestResolveProductsBatchError(t *testing.T) {
	d := newTestTrader(t, nil, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"statusText":"boom"}`, http.StatusInternalServerError)
	})

	it := d.ResolveProducts(context.Background(), []string{"1", "2"})
	if it.Next() {
		t.Error("Next should be false on batch failure")
	}
	if it.Err() == nil {
		t.Error("expected batch error")
	}
}

func TestResolveProductsEmptyInput(t *testing.T) {
	d := newTestTrader(t, nil, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no network call expected, got %s", r.URL.Path)
	})

	it := d.ResolveProducts(context.Background(), nil)
	if it.Next() {
		t.Error("empty input should yield nothing")
	}
	if it.Err() != nil {
		t.Errorf("unexpected error: %v", it.Err())
	}
}

func TestProductBeforeNext(t *testing.T) {
	d := newTestTrader(t, nil, productInfoHandler(t, map[string]string{"1": "One"}, nil))

	it := d.ResolveProducts(context.Background(), []string{"1"})
	if _, err := it.Product(); err == nil {
		t.Fatal("Product before Next should error, not panic")
	}

	// The iterator still works once positioned.
	if !it.Next() {
		t.Fatal("expected first position")
	}
	if _, err := it.Product(); err != nil {
		t.Errorf("Product after Next failed: %v", err)
	}
}

func TestCollectProductsFailsOnUnresolved(t *testing.T) {
	d := newTestTrader(t, nil, productInfoHandler(t, map[string]string{"1": "One"}, nil))

	_, err := CollectProducts(d.ResolveProducts(context.Background(), []string{"1", "404"}))
	var resErr *apierr.ResolutionError
	if !errors.As(err, &resErr) {
		t.Fatalf("expected ResolutionError, got %v", err)
	}
}

func TestPropertyResolutionPreservesOrder(t *testing.T) {
	known := make(map[string]string)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("%d", i)
		known[id] = "product-" + id
	}
	d := newTestTrader(t, nil, productInfoHandler(t, known, nil))

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("one product per input position, in input order", prop.ForAll(
		func(picks []int) bool {
			ids := make([]string, len(picks))
			for i, p := range picks {
				ids[i] = fmt.Sprintf("%d", p)
			}
			products, err := CollectProducts(d.ResolveProducts(context.Background(), ids))
			if err != nil {
				return false
			}
			if len(products) != len(ids) {
				return false
			}
			for i, p := range products {
				if p.ID != ids[i] {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 19)),
	))

	properties.TestingRun(t)
}
