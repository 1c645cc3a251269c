package client

import (
	"net/http"
	"net/url"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "tman_session"

// SessionToken returns the session token held in the cookie jar, or "" when signed out.
func (c *Client) SessionToken() string {
	jar := c.http.GetClient().Jar
	u, err := url.Parse(c.baseURL)
	if jar == nil || err != nil {
		return ""
	}
	for _, cookie := range jar.Cookies(u) {
		if cookie.Name == SessionCookieName {
			return cookie.Value
		}
	}
	return ""
}

// SetSessionToken restores a session saved from an earlier SessionToken call.
func (c *Client) SetSessionToken(token string) {
	if token == "" {
		return
	}
	jar := c.http.GetClient().Jar
	u, err := url.Parse(c.baseURL)
	if jar == nil || err != nil {
		return
	}
	jar.SetCookies(u, []*http.Cookie{{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
	}})
}
