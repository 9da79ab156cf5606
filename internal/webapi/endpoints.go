package webapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/go-querystring/query"

	apierr "degiro-trader/internal/errors"
)

// WireDateFormat is the date layout every endpoint taking a date range uses.
const WireDateFormat = "02/01/2006"

// UpdateOptions selects which sections the trading-update endpoint returns.
type UpdateOptions struct {
	Portfolio        bool
	TotalPortfolio   bool
	Orders           bool
	HistoricalOrders bool
	Transactions     bool
}

// The endpoint expects each requested section as `name=0`.
type updateParams struct {
	Portfolio        *int `url:"portfolio,omitempty"`
	TotalPortfolio   *int `url:"totalPortfolio,omitempty"`
	Orders           *int `url:"orders,omitempty"`
	HistoricalOrders *int `url:"historicalOrders,omitempty"`
	Transactions     *int `url:"transactions,omitempty"`
}

func (o UpdateOptions) params() updateParams {
	zero := 0
	p := updateParams{}
	if o.Portfolio {
		p.Portfolio = &zero
	}
	if o.TotalPortfolio {
		p.TotalPortfolio = &zero
	}
	if o.Orders {
		p.Orders = &zero
	}
	if o.HistoricalOrders {
		p.HistoricalOrders = &zero
	}
	if o.Transactions {
		p.Transactions = &zero
	}
	return p
}

// UpdateResponse carries the requested trading-update sections; unrequested
// sections are nil.
type UpdateResponse struct {
	Orders           *Envelope `json:"orders"`
	HistoricalOrders *Envelope `json:"historicalOrders"`
	Transactions     *Envelope `json:"transactions"`
	Portfolio        *Envelope `json:"portfolio"`
	TotalPortfolio   *Envelope `json:"totalPortfolio"`
}

// OrderRecord is one order as the wire reports it, for both current and
// historical orders.
type OrderRecord struct {
	Created           string      `json:"created"`
	OrderID           string      `json:"orderId"`
	ProductID         json.Number `json:"productId"`
	Size              float64     `json:"size"`
	Price             float64     `json:"price"`
	BuySell           string      `json:"buysell"`
	OrderTypeID       int         `json:"orderTypeId"`
	OrderTimeTypeID   int         `json:"orderTimeTypeId"`
	CurrentTradedSize float64     `json:"currentTradedSize"`
	TotalTradedSize   float64     `json:"totalTradedSize"`
	Type              string      `json:"type"`
	IsActive          bool        `json:"isActive"`
	Status            string      `json:"status"`
}

// TransactionRecord is one executed trade as the wire reports it. The product
// is referenced by id only; resolution happens in the api layer.
type TransactionRecord struct {
	ID                         json.Number `json:"id"`
	ProductID                  json.Number `json:"productId"`
	Date                       string      `json:"date"`
	BuySell                    string      `json:"buysell"`
	Price                      float64     `json:"price"`
	Quantity                   float64     `json:"quantity"`
	Total                      float64     `json:"total"`
	OrderTypeID                int         `json:"orderTypeId"`
	CounterParty               string      `json:"counterParty"`
	Transfered                 bool        `json:"transfered"`
	FxRate                     float64     `json:"fxRate"`
	TotalInBaseCurrency        float64     `json:"totalInBaseCurrency"`
	FeeInBaseCurrency          float64     `json:"feeInBaseCurrency"`
	TotalPlusFeeInBaseCurrency float64     `json:"totalPlusFeeInBaseCurrency"`
	TradingVenue               string      `json:"tradingVenue"`
}

// ProductRecord is one product as the product-info and product-search
// endpoints report it.
type ProductRecord struct {
	ID                string   `json:"id"`
	ISIN              string   `json:"isin"`
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	Currency          string   `json:"currency"`
	ExchangeID        string   `json:"exchangeId"`
	ProductType       string   `json:"productType"`
	ProductTypeID     int      `json:"productTypeId"`
	Tradable          bool     `json:"tradable"`
	Active            bool     `json:"active"`
	Category          string   `json:"category"`
	ContractSize      float64  `json:"contractSize"`
	ClosePrice        float64  `json:"closePrice"`
	BuyOrderTypes     []string `json:"buyOrderTypes"`
	SellOrderTypes    []string `json:"sellOrderTypes"`
	OrderTimeTypes    []string `json:"orderTimeTypes"`
	VwdID             string   `json:"vwdId"`
	VwdIdentifierType string   `json:"vwdIdentifierType"`
}

// TradingUpdate calls the parameterized trading-update endpoint. At least one
// section must be requested.
func (c *Client) TradingUpdate(ctx context.Context, sess *Session, opts UpdateOptions) (*UpdateResponse, error) {
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	q, err := query.Values(opts.params())
	if err != nil {
		return nil, apierr.Wrap(err, "encoding trading-update params")
	}
	u := joinURL(sess.Config.TradingURL, "v5/update", strconv.FormatInt(sess.Client.IntAccount, 10))

	var out UpdateResponse
	if err := c.do(ctx, sess, call{
		op:           "trading_update",
		method:       http.MethodGet,
		url:          u,
		query:        q,
		needsAccount: true,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type dateRangeParams struct {
	FromDate string `url:"fromDate"`
	ToDate   string `url:"toDate"`
}

// OrderHistory fetches closed orders for a date range. Dates are formatted
// with WireDateFormat.
func (c *Client) OrderHistory(ctx context.Context, sess *Session, fromDate, toDate string) ([]OrderRecord, error) {
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	q, err := query.Values(dateRangeParams{FromDate: fromDate, ToDate: toDate})
	if err != nil {
		return nil, apierr.Wrap(err, "encoding order-history params")
	}

	var out struct {
		Data []OrderRecord `json:"data"`
	}
	if err := c.do(ctx, sess, call{
		op:           "order_history",
		method:       http.MethodGet,
		url:          joinURL(sess.Config.ReportingURL, "v4/order-history"),
		query:        q,
		needsAccount: true,
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Transactions fetches executed trades for a date range.
func (c *Client) Transactions(ctx context.Context, sess *Session, fromDate, toDate string) ([]TransactionRecord, error) {
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	q, err := query.Values(dateRangeParams{FromDate: fromDate, ToDate: toDate})
	if err != nil {
		return nil, apierr.Wrap(err, "encoding transactions params")
	}

	var out struct {
		Data []TransactionRecord `json:"data"`
	}
	if err := c.do(ctx, sess, call{
		op:           "transactions",
		method:       http.MethodGet,
		url:          joinURL(sess.Config.ReportingURL, "v4/transactions"),
		query:        q,
		needsAccount: true,
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// ProductsInfo fetches full product records for a set of ids in one batched
// call. The response maps product id to record; ids unknown to the server are
// simply absent.
func (c *Client) ProductsInfo(ctx context.Context, sess *Session, ids []string) (map[string]ProductRecord, error) {
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	var out struct {
		Data map[string]ProductRecord `json:"data"`
	}
	if err := c.do(ctx, sess, call{
		op:           "products_info",
		method:       http.MethodPost,
		url:          joinURL(sess.Config.ProductSearchURL, "v5/products/info"),
		body:         ids,
		needsAccount: true,
	}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SearchOptions parameterize the product-search endpoint.
type SearchOptions struct {
	SearchText    string `url:"searchText"`
	Limit         int    `url:"limit"`
	Offset        int    `url:"offset"`
	ProductTypeID int    `url:"productTypeId,omitempty"`
}

// SearchResponse is the raw product-search result page.
type SearchResponse struct {
	Offset   int             `json:"offset"`
	Products []ProductRecord `json:"products"`
}

// SearchProducts queries the product-search endpoint.
func (c *Client) SearchProducts(ctx context.Context, sess *Session, opts SearchOptions) (*SearchResponse, error) {
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	if opts.Limit <= 0 {
		opts.Limit = 10
	}
	q, err := query.Values(opts)
	if err != nil {
		return nil, apierr.Wrap(err, "encoding search params")
	}

	var out SearchResponse
	if err := c.do(ctx, sess, call{
		op:           "search_products",
		method:       http.MethodGet,
		url:          joinURL(sess.Config.ProductSearchURL, "v5/products/lookup"),
		query:        q,
		needsAccount: true,
	}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductDictionary fetches the static product vocabulary (exchanges, ETF fee
// types, countries and the like) used to render product data.
func (c *Client) ProductDictionary(ctx context.Context, sess *Session) (json.RawMessage, error) {
	if err := requireReady(sess); err != nil {
		return nil, err
	}
	var out json.RawMessage
	if err := c.do(ctx, sess, call{
		op:           "product_dictionary",
		method:       http.MethodGet,
		url:          joinURL(sess.Config.ProductSearchURL, "v5/products/dictionary"),
		needsAccount: true,
	}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func requireReady(sess *Session) error {
	if !sess.HasSessionID() {
		return apierr.ErrNotAuthenticated
	}
	if !sess.HasConfig() {
		return apierr.ErrConfigNotLoaded
	}
	if !sess.HasClient() {
		return apierr.ErrClientInfoNotLoaded
	}
	return nil
}

// SubmitOrder is exposed by the upstream API but its request/response shape
// is unspecified here.
func (c *Client) SubmitOrder(ctx context.Context, sess *Session) error {
	return fmt.Errorf("submit order: %w", apierr.ErrNotImplemented)
}

// SetOrder is exposed by the upstream API but its request/response shape is
// unspecified here.
func (c *Client) SetOrder(ctx context.Context, sess *Session) error {
	return fmt.Errorf("set order: %w", apierr.ErrNotImplemented)
}

// AccountInfo is exposed by the upstream API but its response shape is
// unspecified here.
func (c *Client) AccountInfo(ctx context.Context, sess *Session) error {
	return fmt.Errorf("account info: %w", apierr.ErrNotImplemented)
}
