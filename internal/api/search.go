package api

import (
	"context"

	"degiro-trader/internal/models"
	"degiro-trader/internal/webapi"
)

// SearchProducts runs a text search against the product catalogue and returns
// normalized products.
func (d *Degiro) SearchProducts(ctx context.Context, opts webapi.SearchOptions) ([]models.Product, error) {
	resp, err := d.web.SearchProducts(ctx, d.sess, opts)
	if err != nil {
		return nil, err
	}
	out := make([]models.Product, len(resp.Products))
	for i, rec := range resp.Products {
		out[i] = productFromRecord(rec)
	}
	return out, nil
}
