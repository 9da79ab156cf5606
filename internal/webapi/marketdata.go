package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-querystring/query"

	apierr "degiro-trader/internal/errors"
)

// Price series resolutions and periods understood by the charting endpoint.
const (
	ResolutionOneMinute = "PT1M"
	ResolutionOneDay    = "P1D"

	PeriodOneDay   = "P1DAY"
	PeriodOneWeek  = "P1WEEK"
	PeriodOneMonth = "P1MONTH"
	PeriodOneYear  = "P1YEAR"
)

// PriceDataOptions parameterize a price-series request. Zero values fall back
// to a one-day window of one-minute prices.
type PriceDataOptions struct {
	Resolution string
	Period     string
	Timezone   string
	Culture    string
}

type priceDataParams struct {
	RequestID  string `url:"requestid"`
	Resolution string `url:"resolution"`
	Culture    string `url:"culture"`
	Period     string `url:"period"`
	Series     string `url:"series"`
	Format     string `url:"format"`
	UserToken  int64  `url:"userToken"`
}

// PriceSeries is one series of a price-data response; Data stays raw because
// its shape depends on the series type (object for metadata, value pairs for
// the actual series).
type PriceSeries struct {
	Expires string          `json:"expires"`
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
}

// PriceDataResponse is the charting endpoint result.
type PriceDataResponse struct {
	RequestID  string        `json:"requestid"`
	Start      string        `json:"start"`
	End        string        `json:"end"`
	Resolution string        `json:"resolution"`
	Series     []PriceSeries `json:"series"`
}

// PriceData fetches a price series for a product's feed identifier.
// vwdIdentifierType must be "issueid" or "vwdkey".
func (c *Client) PriceData(ctx context.Context, sess *Session, vwdID, vwdIdentifierType string, opts PriceDataOptions) (*PriceDataResponse, error) {
	if vwdIdentifierType != "issueid" && vwdIdentifierType != "vwdkey" {
		return nil, fmt.Errorf("vwdIdentifierType must be \"issueid\" or \"vwdkey\", got %q", vwdIdentifierType)
	}
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	if opts.Resolution == "" {
		opts.Resolution = ResolutionOneMinute
	}
	if opts.Period == "" {
		opts.Period = PeriodOneDay
	}
	if opts.Culture == "" {
		opts.Culture = "fr-FR"
	}

	q, err := query.Values(priceDataParams{
		RequestID:  "1",
		Resolution: opts.Resolution,
		Culture:    opts.Culture,
		Period:     opts.Period,
		Series:     fmt.Sprintf("price:%s:%s", vwdIdentifierType, vwdID),
		Format:     "json",
		UserToken:  sess.Config.ClientID,
	})
	if err != nil {
		return nil, apierr.Wrap(err, "encoding price-data params")
	}

	var out PriceDataResponse
	if err := c.do(ctx, sess, call{
		op:     "price_data",
		method: http.MethodGet,
		url:    strings.TrimRight(sess.Config.ChartingURL, "/"),
		query:  q,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompanyProfile fetches the company profile for an ISIN.
func (c *Client) CompanyProfile(ctx context.Context, sess *Session, isin string) (json.RawMessage, error) {
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, sess, call{
		op:           "company_profile",
		method:       http.MethodGet,
		url:          c.companyProfileURL(isin),
		needsAccount: true,
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// NewsOptions parameterize a company-news request.
type NewsOptions struct {
	Limit     int
	Offset    int
	Languages []string
}

type newsParams struct {
	ISIN      string `url:"isin"`
	Limit     int    `url:"limit"`
	Offset    int    `url:"offset"`
	Languages string `url:"languages"`
}

// CompanyNews fetches news items for a company by ISIN.
func (c *Client) CompanyNews(ctx context.Context, sess *Session, isin string, opts NewsOptions) (json.RawMessage, error) {
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	if len(opts.Languages) == 0 {
		opts.Languages = []string{"en"}
	}

	q, err := query.Values(newsParams{
		ISIN:      isin,
		Limit:     opts.Limit,
		Offset:    opts.Offset,
		Languages: strings.Join(opts.Languages, ","),
	})
	if err != nil {
		return nil, apierr.Wrap(err, "encoding news params")
	}

	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, sess, call{
		op:           "company_news",
		method:       http.MethodGet,
		url:          joinURL(sess.Config.RefinitivNewsURL, "news-by-company"),
		query:        q,
		needsAccount: true,
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// CheckOrderRequest describes the order to validate.
type CheckOrderRequest struct {
	BuySell   string  `json:"buySell"`
	OrderType int     `json:"orderType"`
	TimeType  int     `json:"timeType"`
	ProductID string  `json:"productId"`
	Size      float64 `json:"size"`
	Price     float64 `json:"price,omitempty"`
}

// CheckOrder obtains an order confirmation payload (confirmation id, fees)
// ahead of submitting an order. The endpoint is rate limited server-side at
// roughly one call per second; throttling is the caller's responsibility, no
// retry happens here.
func (c *Client) CheckOrder(ctx context.Context, sess *Session, order CheckOrderRequest) (json.RawMessage, error) {
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	var out struct {
		Data json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, sess, call{
		op:           "check_order",
		method:       http.MethodPost,
		url:          joinURL(sess.Config.TradingURL, "v5/checkOrder"),
		body:         order,
		needsAccount: true,
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}
