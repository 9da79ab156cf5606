package models

// Product represents a tradeable product: identity plus the trading metadata
// needed to build orders against it.
type Product struct {
	ID            string
	ISIN          string
	Symbol        string
	Name          string
	Currency      string
	ExchangeID    string
	ProductType   string
	ProductTypeID int
	Tradable      bool
	Active        bool
	Category      string
	ContractSize  float64
	ClosePrice    float64

	BuyOrderTypes  []OrderType
	SellOrderTypes []OrderType
	OrderTimeTypes []TimeType

	// Feed identifiers used by the price-data endpoint.
	VwdID             string
	VwdIdentifierType string
}
