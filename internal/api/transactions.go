package api

import (
	"context"
	"time"

	"degiro-trader/internal/models"
	"degiro-trader/internal/webapi"
)

// GetTransactions fetches executed trades for the date window and returns
// them with hydrated products. Product resolution runs as one batched call;
// the join with the raw records is positional, so resolution completes for
// every id before any record is built.
//
// to defaults to now and from to seven days earlier when left zero.
func (d *Degiro) GetTransactions(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	from, to = d.dateWindow(from, to)

	recs, err := d.web.Transactions(ctx, d.sess,
		from.Format(webapi.WireDateFormat), to.Format(webapi.WireDateFormat))
	if err != nil {
		return nil, err
	}
	if len(recs) == 0 {
		return nil, nil
	}

	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ProductID.String()
	}

	products, err := CollectProducts(d.ResolveProducts(ctx, ids))
	if err != nil {
		return nil, err
	}

	out := make([]models.Transaction, len(recs))
	for i, rec := range recs {
		tx, err := transactionFromRecord(rec, products[i])
		if err != nil {
			return nil, err
		}
		out[i] = tx
	}
	return out, nil
}
