package api

import (
	"context"
	"encoding/json"
	"time"

	apierr "degiro-trader/internal/errors"
	"degiro-trader/internal/models"
	"degiro-trader/internal/webapi"
)

// GetOrders fetches currently open orders and historical orders, normalized
// identically. The two underlying calls run concurrently; a failure of either
// fails the whole call; there is no half-populated pair.
//
// to defaults to now and from to seven days earlier when left zero.
func (d *Degiro) GetOrders(ctx context.Context, from, to time.Time) (current, historical []models.Order, err error) {
	from, to = d.dateWindow(from, to)

	var (
		currentRecs    []webapi.OrderRecord
		historicalRecs []webapi.OrderRecord
	)
	errs := make(chan error, 2)

	go func() {
		recs, err := d.currentOrders(ctx)
		currentRecs = recs
		errs <- err
	}()
	go func() {
		recs, err := d.web.OrderHistory(ctx, d.sess,
			from.Format(webapi.WireDateFormat), to.Format(webapi.WireDateFormat))
		historicalRecs = recs
		errs <- err
	}()

	// Join both legs before looking at errors so neither slice is written
	// after return.
	for i := 0; i < 2; i++ {
		if e := <-errs; e != nil && err == nil {
			err = e
		}
	}
	if err != nil {
		return nil, nil, err
	}

	current, err = ordersFromRecords(currentRecs)
	if err != nil {
		return nil, nil, err
	}
	historical, err = ordersFromRecords(historicalRecs)
	if err != nil {
		return nil, nil, err
	}
	return current, historical, nil
}

// currentOrders reads the orders section of the trading-update endpoint.
// Unlike portfolio sections, order rows come back as flat objects.
func (d *Degiro) currentOrders(ctx context.Context) ([]webapi.OrderRecord, error) {
	update, err := d.web.TradingUpdate(ctx, d.sess, webapi.UpdateOptions{Orders: true})
	if err != nil {
		return nil, err
	}
	if update.Orders == nil || len(update.Orders.Value) == 0 {
		return nil, nil
	}
	var recs []webapi.OrderRecord
	if err := json.Unmarshal(update.Orders.Value, &recs); err != nil {
		return nil, apierr.Wrap(err, "decoding current orders")
	}
	return recs, nil
}

func ordersFromRecords(recs []webapi.OrderRecord) ([]models.Order, error) {
	if len(recs) == 0 {
		return nil, nil
	}
	out := make([]models.Order, len(recs))
	for i, rec := range recs {
		order, err := orderFromRecord(rec)
		if err != nil {
			return nil, err
		}
		out[i] = order
	}
	return out, nil
}
