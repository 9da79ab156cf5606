package models

// Order is an immutable snapshot of a trading order.
type Order struct {
	ID                string
	ProductID         string
	Size              float64
	Price             float64
	Side              OrderSide
	OrderTypeID       int
	OrderTimeTypeID   int
	CurrentTradedSize float64
	TotalTradedSize   float64
	Type              string // lifecycle event type, e.g. "CREATED"
	Status            string // e.g. "CONFIRMED", "REJECTED"
	IsActive          bool
	Created           string
}
