package models

import "time"

// Transaction is an immutable executed-trade record. Product is the hydrated
// product resolved for the row's product id, not just the id.
type Transaction struct {
	ID           string
	Product      Product
	Date         time.Time
	Side         OrderSide
	Price        float64
	Quantity     float64
	Total        float64
	OrderTypeID  int
	CounterParty string
	Transfered   bool
	FxRate       float64

	TotalInBaseCurrency        float64
	FeeInBaseCurrency          float64
	TotalPlusFeeInBaseCurrency float64
	TradingVenue               string
}
