package navigation

import (
	"net/url"
	"strings"
	"sync"
)

// Navigator moves the operator between views.
type Navigator interface {
	// Location is the view currently shown.
	Location() string
	// GoToLogin sends the operator to the login view. returnPath may be empty.
	GoToLogin(returnPath string)
}

// ToLogin navigates to loginPath unless the navigator is already there.
// It reports whether navigation was triggered.
func ToLogin(nav Navigator, loginPath string) bool {
	current := nav.Location()
	if pathOf(current) == loginPath {
		return false
	}
	nav.GoToLogin(current)
	return true
}

// ToLoginFresh is ToLogin without a return target, for a deliberate sign out.
func ToLoginFresh(nav Navigator, loginPath string) bool {
	if pathOf(nav.Location()) == loginPath {
		return false
	}
	nav.GoToLogin("")
	return true
}

// LoginURL is loginPath carrying returnPath as the "from" parameter.
func LoginURL(loginPath, returnPath string) string {
	if returnPath == "" || pathOf(returnPath) == loginPath {
		return loginPath
	}
	return loginPath + "?" + url.Values{"from": {returnPath}}.Encode()
}

// ReturnPath accepts only local absolute paths and falls back to "/".
func ReturnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.Contains(raw, `\`) {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return "/"
	}
	return raw
}

func pathOf(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 {
		return location[:i]
	}
	return location
}

// Tracker is the console's Navigator. The router records every location it
// serves with Visit; GoToLogin leaves a pending redirect that the handler
// serving the current request applies with TakeRedirect.
type Tracker struct {
	loginPath string

	mu       sync.Mutex
	location string
	pending  string
}

func NewTracker(loginPath string) *Tracker {
	return &Tracker{
		loginPath: loginPath,
		location:  "/",
	}
}

func (t *Tracker) LoginPath() string {
	return t.loginPath
}

func (t *Tracker) Location() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.location
}

// Visit records location as the current view and drops any stale redirect.
func (t *Tracker) Visit(location string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.location = location
	t.pending = ""
}

func (t *Tracker) GoToLogin(returnPath string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = LoginURL(t.loginPath, returnPath)
	t.location = t.loginPath
}

// TakeRedirect returns and clears the pending redirect.
func (t *Tracker) TakeRedirect() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	target := t.pending
	t.pending = ""
	return target, target != ""
}
