package api

import (
	"time"

	apierr "degiro-trader/internal/errors"
	"degiro-trader/internal/models"
	"degiro-trader/internal/webapi"
)

// Mapping functions from wire records to domain records. Field renaming and
// side-code translation happen here and nowhere else.

func orderFromRecord(rec webapi.OrderRecord) (models.Order, error) {
	side, err := models.ParseOrderSide(rec.BuySell)
	if err != nil {
		return models.Order{}, apierr.Wrapf(err, "order %s", rec.OrderID)
	}
	return models.Order{
		ID:                rec.OrderID,
		ProductID:         rec.ProductID.String(),
		Size:              rec.Size,
		Price:             rec.Price,
		Side:              side,
		OrderTypeID:       rec.OrderTypeID,
		OrderTimeTypeID:   rec.OrderTimeTypeID,
		CurrentTradedSize: rec.CurrentTradedSize,
		TotalTradedSize:   rec.TotalTradedSize,
		Type:              rec.Type,
		Status:            rec.Status,
		IsActive:          rec.IsActive,
		Created:           rec.Created,
	}, nil
}

func transactionFromRecord(rec webapi.TransactionRecord, product models.Product) (models.Transaction, error) {
	side, err := models.ParseOrderSide(rec.BuySell)
	if err != nil {
		return models.Transaction{}, apierr.Wrapf(err, "transaction %s", rec.ID.String())
	}
	date, err := time.Parse(time.RFC3339, rec.Date)
	if err != nil {
		return models.Transaction{}, apierr.Wrapf(err, "transaction %s: parsing date %q", rec.ID.String(), rec.Date)
	}
	return models.Transaction{
		ID:                         rec.ID.String(),
		Product:                    product,
		Date:                       date,
		Side:                       side,
		Price:                      rec.Price,
		Quantity:                   rec.Quantity,
		Total:                      rec.Total,
		OrderTypeID:                rec.OrderTypeID,
		CounterParty:               rec.CounterParty,
		Transfered:                 rec.Transfered,
		FxRate:                     rec.FxRate,
		TotalInBaseCurrency:        rec.TotalInBaseCurrency,
		FeeInBaseCurrency:          rec.FeeInBaseCurrency,
		TotalPlusFeeInBaseCurrency: rec.TotalPlusFeeInBaseCurrency,
		TradingVenue:               rec.TradingVenue,
	}, nil
}

func productFromRecord(rec webapi.ProductRecord) models.Product {
	return models.Product{
		ID:                rec.ID,
		ISIN:              rec.ISIN,
		Symbol:            rec.Symbol,
		Name:              rec.Name,
		Currency:          rec.Currency,
		ExchangeID:        rec.ExchangeID,
		ProductType:       rec.ProductType,
		ProductTypeID:     rec.ProductTypeID,
		Tradable:          rec.Tradable,
		Active:            rec.Active,
		Category:          rec.Category,
		ContractSize:      rec.ContractSize,
		ClosePrice:        rec.ClosePrice,
		BuyOrderTypes:     orderTypes(rec.BuyOrderTypes),
		SellOrderTypes:    orderTypes(rec.SellOrderTypes),
		OrderTimeTypes:    timeTypes(rec.OrderTimeTypes),
		VwdID:             rec.VwdID,
		VwdIdentifierType: rec.VwdIdentifierType,
	}
}

func orderTypes(values []string) []models.OrderType {
	if len(values) == 0 {
		return nil
	}
	out := make([]models.OrderType, len(values))
	for i, v := range values {
		out[i] = models.OrderType(v)
	}
	return out
}

func timeTypes(values []string) []models.TimeType {
	if len(values) == 0 {
		return nil
	}
	out := make([]models.TimeType, len(values))
	for i, v := range values {
		out[i] = models.TimeType(v)
	}
	return out
}
