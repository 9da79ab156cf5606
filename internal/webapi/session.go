package webapi

import (
	"net/http"
)

// SessionCookieName is the server-issued cookie proving an authenticated
// session. Every authenticated call carries it.
const SessionCookieName = "JSESSIONID"

// Credentials holds everything needed to authenticate a user.
// When the account has two-factor authentication enabled, at most one of
// TOTPSecret / OneTimePassword is needed; providing neither is a hard error
// once the server issues the challenge.
type Credentials struct {
	Username        string
	Password        string
	TOTPSecret      string
	OneTimePassword string
}

// SessionConfig is the per-session configuration fetched after login. The
// URLs scope later calls to the account's service endpoints; ClientID is the
// numeric token some endpoints take as userToken.
type SessionConfig struct {
	SessionID        string `json:"sessionId"`
	ClientID         int64  `json:"clientId"`
	TradingURL       string `json:"tradingUrl"`
	PaURL            string `json:"paUrl"`
	ProductSearchURL string `json:"productSearchUrl"`
	ReportingURL     string `json:"reportingUrl"`
	ChartingURL      string `json:"chartingUrl"`
	RefinitivNewsURL string `json:"refinitivNewsUrl"`
}

// ClientInfo is the account identity fetched after login.
type ClientInfo struct {
	ID         int64  `json:"id"`
	IntAccount int64  `json:"intAccount"`
	Username   string `json:"username"`
	Email      string `json:"email"`
}

// Session holds the state of one authenticated session: the login cookies,
// then the config and client info added by the two enrichment steps.
//
// A Session is mutated only by Login, GetConfig and GetClientInfo; every
// other call reads it. Concurrent reads against a fully enriched session are
// safe; concurrent login/enrichment against the same Session is not, and
// callers must serialize those. There is no automatic refresh: when the
// server invalidates the session, log in again with a fresh or same Session.
type Session struct {
	sessionID string
	cookies   []*http.Cookie

	Config *SessionConfig
	Client *ClientInfo
}

// NewSession returns an empty session, ready for Login.
func NewSession() *Session {
	return &Session{}
}

// setCookies stores the login response cookies and extracts the session id.
// Returns false when no session cookie is present.
func (s *Session) setCookies(cookies []*http.Cookie) bool {
	s.cookies = cookies
	s.sessionID = ""
	for _, c := range cookies {
		if c.Name == SessionCookieName {
			s.sessionID = c.Value
		}
	}
	return s.sessionID != ""
}

// SessionID returns the value of the session cookie, empty before login.
func (s *Session) SessionID() string {
	return s.sessionID
}

// HasSessionID reports whether login populated the session cookie.
func (s *Session) HasSessionID() bool {
	return s.sessionID != ""
}

// HasConfig reports whether GetConfig populated the session.
func (s *Session) HasConfig() bool {
	return s.Config != nil
}

// HasClient reports whether GetClientInfo populated the session.
func (s *Session) HasClient() bool {
	return s.Client != nil
}

// Ready reports whether the session can serve account-scoped calls: logged
// in, config loaded and client info loaded.
func (s *Session) Ready() bool {
	return s.HasSessionID() && s.HasConfig() && s.HasClient()
}

// Cookies returns the cookies to replay on authenticated calls.
func (s *Session) Cookies() []*http.Cookie {
	return s.cookies
}
