package webapi

import "strings"

// Fixed paths under the base URL. Account-scoped endpoints use the URLs the
// config call returns instead.
const (
	loginPath          = "/login/secure/login"
	loginTOTPPath      = "/login/secure/login/totp"
	configPath         = "/login/secure/config"
	clientInfoPath     = "/pa/secure/client"
	companyProfilePath = "/dgtbxdsservice/company-profile/v2"
)

// joinURL joins URL fragments with single slashes regardless of how the
// config-provided URLs are terminated.
func joinURL(parts ...string) string {
	trimmed := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed = append(trimmed, strings.TrimRight(strings.TrimPrefix(p, "/"), "/"))
	}
	return strings.Join(trimmed, "/")
}

func (c *Client) loginURL() string      { return c.baseURL + loginPath }
func (c *Client) loginTOTPURL() string  { return c.baseURL + loginTOTPPath }
func (c *Client) configURL() string     { return c.baseURL + configPath }
func (c *Client) clientInfoURL() string { return c.baseURL + clientInfoPath }

func (c *Client) companyProfileURL(isin string) string {
	return joinURL(c.baseURL, companyProfilePath, isin)
}
