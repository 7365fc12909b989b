package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/ghaggin/erp-console/internal/config"
)

const (
	flashKey = "flash"
)

// BrowserSession is the cookie session between the console and the
// operator's browser. It only carries one-shot flash messages; credentials
// live in the token store.
type BrowserSession struct {
	impl *scs.SessionManager
}

func NewBrowserSession(cfg *config.Config) (*BrowserSession, error) {
	bs := &BrowserSession{}
	bs.impl = scs.New()
	bs.impl.Cookie.Name = "erp_console"
	bs.impl.Cookie.SameSite = http.SameSiteLaxMode
	bs.impl.Lifetime = cfg.Console.FlashLifetime
	if bs.impl.Lifetime <= 0 {
		bs.impl.Lifetime = 10 * time.Minute
	}

	return bs, nil
}

func (s *BrowserSession) Wrap(next http.Handler) http.Handler {
	return s.impl.LoadAndSave(next)
}

func (s *BrowserSession) Flash(ctx context.Context, msg string) {
	s.impl.Put(ctx, flashKey, msg)
}

func (s *BrowserSession) PopFlash(ctx context.Context) string {
	return s.impl.PopString(ctx, flashKey)
}
