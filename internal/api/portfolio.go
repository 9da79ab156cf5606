package api

import (
	"context"
	"fmt"
	"strconv"

	apierr "degiro-trader/internal/errors"
	"degiro-trader/internal/models"
	"degiro-trader/internal/webapi"
)

// Portfolio is the positions snapshot together with the aggregate figures the
// server reports alongside it.
type Portfolio struct {
	Positions []models.Position
	Total     models.TotalPortfolio
}

// GetPortfolio fetches the current positions and aggregate portfolio values.
// Position rows and the totals block arrive in the nested envelope shape; the
// translation to flat domain records happens here, and a row missing a
// required field fails the whole call rather than producing a partial record.
func (d *Degiro) GetPortfolio(ctx context.Context) (*Portfolio, error) {
	update, err := d.web.TradingUpdate(ctx, d.sess, webapi.UpdateOptions{
		Portfolio:      true,
		TotalPortfolio: true,
	})
	if err != nil {
		return nil, err
	}

	out := &Portfolio{}
	if update.Portfolio != nil && len(update.Portfolio.Value) > 0 {
		rows, err := webapi.DecodeRowList(update.Portfolio.Value)
		if err != nil {
			return nil, apierr.Wrap(err, "decoding portfolio")
		}
		out.Positions = make([]models.Position, 0, len(rows))
		for i, row := range rows {
			pos, err := positionFromFields(row)
			if err != nil {
				return nil, apierr.Wrapf(err, "portfolio row %d", i)
			}
			out.Positions = append(out.Positions, pos)
		}
	}
	if update.TotalPortfolio != nil && len(update.TotalPortfolio.Value) > 0 {
		fields, err := webapi.DecodeFieldMap(update.TotalPortfolio.Value)
		if err != nil {
			return nil, apierr.Wrap(err, "decoding total portfolio")
		}
		total, err := totalFromFields(fields)
		if err != nil {
			return nil, apierr.Wrap(err, "total portfolio")
		}
		out.Total = total
	}
	return out, nil
}

func positionFromFields(fields map[string]interface{}) (models.Position, error) {
	id, err := getString(fields, "id")
	if err != nil {
		return models.Position{}, err
	}
	ptype, err := getString(fields, "positionType")
	if err != nil {
		return models.Position{}, err
	}
	size, err := getFloat(fields, "size")
	if err != nil {
		return models.Position{}, err
	}
	price, err := getFloat(fields, "price")
	if err != nil {
		return models.Position{}, err
	}
	value, err := getFloat(fields, "value")
	if err != nil {
		return models.Position{}, err
	}
	return models.Position{
		ID:                     id,
		PositionType:           models.PositionType(ptype),
		Size:                   size,
		Price:                  price,
		Value:                  value,
		BreakEvenPrice:         optFloat(fields, "breakEvenPrice"),
		AverageFxRate:          optFloat(fields, "averageFxRate"),
		PlBase:                 currencyMap(fields, "plBase"),
		TodayPlBase:            currencyMap(fields, "todayPlBase"),
		RealizedProductPl:      optFloat(fields, "realizedProductPl"),
		RealizedFxPl:           optFloat(fields, "realizedFxPl"),
		TodayRealizedProductPl: optFloat(fields, "todayRealizedProductPl"),
		TodayRealizedFxPl:      optFloat(fields, "todayRealizedFxPl"),
	}, nil
}

func totalFromFields(fields map[string]interface{}) (models.TotalPortfolio, error) {
	cash, err := getFloat(fields, "totalCash")
	if err != nil {
		return models.TotalPortfolio{}, err
	}
	return models.TotalPortfolio{
		DegiroCash:             optFloat(fields, "degiroCash"),
		FlatexCash:             optFloat(fields, "flatexCash"),
		TotalCash:              cash,
		TotalDepositWithdrawal: optFloat(fields, "totalDepositWithdrawal"),
		TodayDepositWithdrawal: optFloat(fields, "todayDepositWithdrawal"),
		FreeSpaceNew:           currencyMap(fields, "freeSpaceNew"),
		ReportMargin:           optFloat(fields, "reportMargin"),
		ReportPortfValue:       optFloat(fields, "reportPortfValue"),
		ReportCashBal:          optFloat(fields, "reportCashBal"),
		ReportNetliq:           optFloat(fields, "reportNetliq"),
		ReportOverallMargin:    optFloat(fields, "reportOverallMargin"),
		ReportTotalLongVal:     optFloat(fields, "reportTotalLongVal"),
		ReportDeficit:          optFloat(fields, "reportDeficit"),
		MarginCallStatus:       optString(fields, "marginCallStatus"),
	}, nil
}

// getString requires a field and coerces scalar ids to string.
func getString(fields map[string]interface{}, name string) (string, error) {
	v, ok := fields[name]
	if !ok || v == nil {
		return "", fmt.Errorf("missing field %q", name)
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	default:
		return "", fmt.Errorf("field %q: unexpected type %T", name, v)
	}
}

func getFloat(fields map[string]interface{}, name string) (float64, error) {
	v, ok := fields[name]
	if !ok || v == nil {
		return 0, fmt.Errorf("missing field %q", name)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q: unexpected type %T", name, v)
	}
	return f, nil
}

func optFloat(fields map[string]interface{}, name string) float64 {
	f, _ := fields[name].(float64)
	return f
}

func optString(fields map[string]interface{}, name string) string {
	s, _ := fields[name].(string)
	return s
}

// currencyMap reads a nested currency→amount block, tolerating its absence.
func currencyMap(fields map[string]interface{}, name string) map[string]float64 {
	nested, ok := fields[name].(map[string]interface{})
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(nested))
	for k, v := range nested {
		if f, ok := v.(float64); ok {
			out[k] = f
		}
	}
	return out
}
