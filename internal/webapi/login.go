package webapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	apierr "degiro-trader/internal/errors"
	"degiro-trader/internal/logging"
	"degiro-trader/internal/totp"
)

// statusTOTPNeeded is the server status asking for a one-time password.
const statusTOTPNeeded = 6

type loginRequest struct {
	Username           string            `json:"username"`
	Password           string            `json:"password"`
	IsRedirectToMobile bool              `json:"isRedirectToMobile"`
	IsPassCodeReset    string            `json:"isPassCodeReset"`
	OneTimePassword    string            `json:"oneTimePassword,omitempty"`
	QueryParams        map[string]string `json:"queryParams"`
}

type loginResponse struct {
	Status     int    `json:"status"`
	StatusText string `json:"statusText"`
	SessionID  string `json:"sessionId"`
}

// Login authenticates against the login endpoint and stores the resulting
// cookies on the session. When the server answers with a TOTP challenge, the
// one-time code is derived from the TOTP secret if present, otherwise the
// caller-supplied code is used; the challenge request carries the cookies of
// the first response. A session that is passed in is reused, otherwise a new
// one is created.
//
// A success response without the session cookie fails with ErrNoSessionID.
// There is no recovery at this layer: the caller decides whether to retry the
// whole login.
func (c *Client) Login(ctx context.Context, creds Credentials, sess *Session) (*Session, error) {
	if sess == nil {
		sess = NewSession()
	}

	payload := loginRequest{
		Username:           creds.Username,
		Password:           creds.Password,
		IsRedirectToMobile: false,
		IsPassCodeReset:    "",
		QueryParams:        map[string]string{"reason": "session_expired"},
	}

	resp, body, err := c.postLogin(ctx, c.loginURL(), payload, nil)
	if err != nil {
		return nil, err
	}

	var parsed loginResponse
	// The body is inspected before status validation: the challenge response
	// is not a terminal failure.
	_ = json.Unmarshal(body, &parsed)

	if parsed.Status == statusTOTPNeeded {
		switch {
		case creds.TOTPSecret != "":
			code, err := totp.Generate(creds.TOTPSecret, c.clock())
			if err != nil {
				return nil, err
			}
			payload.OneTimePassword = code
		case creds.OneTimePassword != "":
			payload.OneTimePassword = creds.OneTimePassword
		default:
			return nil, apierr.ErrMissingChallengeCredential
		}

		resp, body, err = c.postLogin(ctx, c.loginTOTPURL(), payload, resp.Cookies())
		if err != nil {
			return nil, err
		}
	}

	if err := checkResponse("login", resp.StatusCode, body); err != nil {
		switch resp.StatusCode {
		case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
			return nil, apierr.Wrapf(apierr.ErrInvalidCredentials, "%v", err)
		}
		return nil, err
	}

	if !sess.setCookies(resp.Cookies()) {
		c.logger.Error().Str("url", resp.Request.URL.String()).
			Msg("login succeeded but response carries no session cookie")
		return nil, apierr.ErrNoSessionID
	}
	return sess, nil
}

// postLogin posts a login payload, optionally replaying cookies from an
// earlier challenge response.
func (c *Client) postLogin(ctx context.Context, loginURL string, payload loginRequest, cookies []*http.Cookie) (*http.Response, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, apierr.Wrap(err, "encoding login request")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, loginURL, bytes.NewReader(raw))
	if err != nil {
		return nil, nil, apierr.Wrap(err, "building login request")
	}
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	logging.LogAPICall(c.logger, http.MethodPost, loginURL, time.Since(start), err)
	if err != nil {
		return nil, nil, apierr.NewTransportError("login", loginURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, apierr.NewTransportError("login", loginURL, err)
	}
	return resp, body, nil
}

// GetConfig fetches the per-session configuration and stores it on the
// session. Requires a logged-in session; config itself is not needed, so this
// may run before, after or concurrently with GetClientInfo.
func (c *Client) GetConfig(ctx context.Context, sess *Session) error {
	var out struct {
		Data SessionConfig `json:"data"`
	}
	if err := c.do(ctx, sess, call{
		op:     "get_config",
		method: http.MethodGet,
		url:    c.configURL(),
	}, &out); err != nil {
		return err
	}
	sess.Config = &out.Data
	return nil
}

// GetClientInfo fetches the account identity (intAccount among others) and
// stores it on the session. Depends only on the session cookie, not on
// config.
func (c *Client) GetClientInfo(ctx context.Context, sess *Session) error {
	if !sess.HasSessionID() {
		return apierr.ErrNotAuthenticated
	}
	q := url.Values{}
	q.Set("sessionId", sess.SessionID())

	var out struct {
		Data ClientInfo `json:"data"`
	}
	if err := c.do(ctx, sess, call{
		op:     "get_client_info",
		method: http.MethodGet,
		url:    c.clientInfoURL(),
		query:  q,
	}, &out); err != nil {
		return err
	}
	sess.Client = &out.Data
	return nil
}
