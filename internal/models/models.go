// Package models provides domain models for the DEGIRO client.
package models

import (
	apierr "degiro-trader/internal/errors"
)

// OrderSide represents the side of an order or transaction.
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// ParseOrderSide translates the wire buy/sell code to a domain side.
// 'B' and 'S' are the only accepted codes.
func ParseOrderSide(code string) (OrderSide, error) {
	switch code {
	case "B":
		return OrderSideBuy, nil
	case "S":
		return OrderSideSell, nil
	default:
		return "", apierr.Wrapf(apierr.ErrUnknownSideCode, "%q", code)
	}
}

// OrderType represents the type of an order as exposed by the product
// metadata (allowed order types per product).
type OrderType string

const (
	OrderTypeLimit     OrderType = "LIMIT"
	OrderTypeMarket    OrderType = "MARKET"
	OrderTypeStopLoss  OrderType = "STOPLOSS"
	OrderTypeStopLimit OrderType = "STOPLIMIT"
)

// TimeType represents the time-in-force of an order.
type TimeType string

const (
	TimeTypeDay TimeType = "DAY"
	TimeTypeGTC TimeType = "GTC"
)

// PositionType distinguishes portfolio rows.
type PositionType string

const (
	PositionTypeProduct PositionType = "PRODUCT"
	PositionTypeCash    PositionType = "CASH"
)
