package scraper

import "strings"

// Authentication signals. The upstream app is a SPA that neither fires
// a navigation event on login nor exposes a stable post-login marker,
// so success is detected from any one of: navigating off the login URL,
// an auth-ish cookie appearing, or authenticated page content.

var authCookieHints = []string{"token", "auth", "session", "jwt"}

var authContentHints = []string{"dashboard", "portfolio", "sector", "logout", "sign out"}

// onLoginPage reports whether the URL still looks like the login page.
func onLoginPage(url string) bool {
	return strings.Contains(strings.ToLower(url), "login")
}

// authCookie returns the first cookie name suggesting an authenticated
// session.
func authCookie(names []string) (string, bool) {
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, hint := range authCookieHints {
			if strings.Contains(lower, hint) {
				return name, true
			}
		}
	}
	return "", false
}

// authContent reports whether visible page text carries a marker only
// shown to authenticated users.
func authContent(body string) bool {
	lower := strings.ToLower(body)
	for _, hint := range authContentHints {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}
