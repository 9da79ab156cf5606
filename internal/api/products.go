package api

import (
	"context"
	"errors"

	apierr "degiro-trader/internal/errors"
	"degiro-trader/internal/models"
)

// ProductIterator yields one resolved product per requested id, in request
// order. It is single-pass and non-restartable; callers needing random access
// must collect the results themselves.
//
// A failing position carries its own error and does not affect siblings;
// Product reports it. Err reports a batch-level failure (e.g. the network
// call itself failed), in which case Next is immediately false.
type ProductIterator struct {
	ids      []string
	resolved map[string]models.Product
	pos      int
	batchErr error
}

// Next advances to the next position. It returns false once all positions
// are consumed or the batch as a whole failed.
func (it *ProductIterator) Next() bool {
	if it.batchErr != nil || it.pos >= len(it.ids) {
		return false
	}
	it.pos++
	return true
}

// Product returns the product at the current position, or the
// ResolutionError attached to it. Duplicated input ids yield value-equal
// copies. Product is only valid after Next has returned true.
func (it *ProductIterator) Product() (models.Product, error) {
	if it.pos == 0 {
		return models.Product{}, errors.New("Product called before Next")
	}
	id := it.ids[it.pos-1]
	product, ok := it.resolved[id]
	if !ok {
		return models.Product{}, &apierr.ResolutionError{ProductID: id, Position: it.pos - 1}
	}
	return product, nil
}

// Err reports a batch-level failure.
func (it *ProductIterator) Err() error {
	return it.batchErr
}

// Len returns the number of positions, resolved or not.
func (it *ProductIterator) Len() int {
	return len(it.ids)
}

// ResolveProducts fetches full product records for a sequence of ids.
// Identical ids are deduplicated into a single batched network call, but the
// iterator still yields one product per input position, in input order; the
// positional join in GetTransactions depends on that.
func (d *Degiro) ResolveProducts(ctx context.Context, ids []string) *ProductIterator {
	it := &ProductIterator{ids: ids}
	if len(ids) == 0 {
		return it
	}

	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	records, err := d.web.ProductsInfo(ctx, d.sess, unique)
	if err != nil {
		it.batchErr = err
		return it
	}

	it.resolved = make(map[string]models.Product, len(records))
	for id, rec := range records {
		it.resolved[id] = productFromRecord(rec)
	}
	return it
}

// CollectProducts drains an iterator into a slice, failing on the first
// unresolved position.
func CollectProducts(it *ProductIterator) ([]models.Product, error) {
	out := make([]models.Product, 0, it.Len())
	for it.Next() {
		product, err := it.Product()
		if err != nil {
			return nil, err
		}
		out = append(out, product)
	}
	if err := it.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
