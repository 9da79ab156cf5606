package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apierr "degiro-trader/internal/errors"
	"degiro-trader/internal/logging"
)

// call describes one authenticated request. Every endpoint goes through
// (*Client).do so session data reaches outgoing requests in exactly one
// place.
type call struct {
	op     string
	method string
	url    string
	query  url.Values
	body   interface{}

	// needsAccount adds intAccount/sessionId query parameters and requires
	// the session to be fully enriched.
	needsAccount bool
}

// do runs one authenticated call: precondition checks, session stamping,
// transport, uniform response validation, JSON decoding into out (skipped
// when out is nil).
func (c *Client) do(ctx context.Context, sess *Session, cl call, out interface{}) error {
	if !sess.HasSessionID() {
		return apierr.ErrNotAuthenticated
	}
	q := cl.query
	if q == nil {
		q = url.Values{}
	}
	if cl.needsAccount {
		if !sess.HasConfig() {
			return apierr.ErrConfigNotLoaded
		}
		if !sess.HasClient() {
			return apierr.ErrClientInfoNotLoaded
		}
		q.Set("intAccount", strconv.FormatInt(sess.Client.IntAccount, 10))
		q.Set("sessionId", sess.Config.SessionID)
	}

	var body io.Reader
	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return apierr.Wrapf(err, "encoding %s request", cl.op)
		}
		body = bytes.NewReader(payload)
	}

	reqURL := cl.url
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, reqURL, body)
	if err != nil {
		return apierr.Wrapf(err, "building %s request", cl.op)
	}
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range sess.Cookies() {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	logging.LogAPICall(c.logger, cl.method, cl.url, time.Since(start), err)
	if err != nil {
		return apierr.NewTransportError(cl.op, cl.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apierr.NewTransportError(cl.op, cl.url, err)
	}
	if err := checkResponse(cl.op, resp.StatusCode, raw); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apierr.Wrapf(err, "decoding %s response", cl.op)
	}
	return nil
}
