package api

import (
	"context"
	"encoding/json"

	"degiro-trader/internal/webapi"
)

// PriceData fetches a price series for a product. The product's feed
// identifier and identifier type come from a resolved product record.
func (d *Degiro) PriceData(ctx context.Context, product string, opts webapi.PriceDataOptions) (*webapi.PriceDataResponse, error) {
	it := d.ResolveProducts(ctx, []string{product})
	products, err := CollectProducts(it)
	if err != nil {
		return nil, err
	}
	p := products[0]
	return d.web.PriceData(ctx, d.sess, p.VwdID, p.VwdIdentifierType, opts)
}

// CompanyProfile fetches the company profile for an ISIN.
func (d *Degiro) CompanyProfile(ctx context.Context, isin string) (json.RawMessage, error) {
	return d.web.CompanyProfile(ctx, d.sess, isin)
}

// CompanyNews fetches news items for a company by ISIN.
func (d *Degiro) CompanyNews(ctx context.Context, isin string, opts webapi.NewsOptions) (json.RawMessage, error) {
	return d.web.CompanyNews(ctx, d.sess, isin, opts)
}

// ProductDictionary fetches the static product vocabulary.
func (d *Degiro) ProductDictionary(ctx context.Context) (json.RawMessage, error) {
	return d.web.ProductDictionary(ctx, d.sess)
}

// CheckOrder validates an order ahead of submission. The server rate limits
// this endpoint at roughly one call per second; callers pacing repeated checks
// can use pkg/utils.Throttle.
func (d *Degiro) CheckOrder(ctx context.Context, order webapi.CheckOrderRequest) (json.RawMessage, error) {
	return d.web.CheckOrder(ctx, d.sess, order)
}
