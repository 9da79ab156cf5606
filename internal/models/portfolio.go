package models

// Position is one row of the portfolio: either a product holding or a cash
// balance, per PositionType.
type Position struct {
	ID             string
	PositionType   PositionType
	Size           float64
	Price          float64
	Value          float64
	BreakEvenPrice float64
	AverageFxRate  float64

	// Profit/loss figures keyed by base currency, as reported by the server.
	PlBase      map[string]float64
	TodayPlBase map[string]float64

	RealizedProductPl      float64
	RealizedFxPl           float64
	TodayRealizedProductPl float64
	TodayRealizedFxPl      float64
}

// TotalPortfolio carries the aggregate values reported alongside the
// portfolio rows.
type TotalPortfolio struct {
	DegiroCash             float64
	FlatexCash             float64
	TotalCash              float64
	TotalDepositWithdrawal float64
	TodayDepositWithdrawal float64
	FreeSpaceNew           map[string]float64
	ReportMargin           float64
	ReportPortfValue       float64
	ReportCashBal          float64
	ReportNetliq           float64
	ReportOverallMargin    float64
	ReportTotalLongVal     float64
	ReportDeficit          float64
	MarginCallStatus       string
}
