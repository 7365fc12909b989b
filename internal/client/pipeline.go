package client

import (
	"context"
	"net/http"

	"github.com/ghaggin/erp-console/internal/navigation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
)

// TokenSource is the part of the token store the pipeline needs.
type TokenSource interface {
	Token(ctx context.Context) (string, bool)
	Clear(ctx context.Context)
}

// Pipeline is the single choke point for outbound calls to the ERP API. It
// attaches the stored bearer token and, on a 401, clears the token store and
// sends the operator to the login view.
type Pipeline struct {
	next      http.RoundTripper
	tokens    TokenSource
	nav       navigation.Navigator
	loginPath string
	log       *zap.Logger
}

func NewPipeline(next http.RoundTripper, tokens TokenSource, nav navigation.Navigator, loginPath string, log *zap.Logger) *Pipeline {
	if next == nil {
		next = http.DefaultTransport
	}
	return &Pipeline{
		next:      next,
		tokens:    tokens,
		nav:       nav,
		loginPath: loginPath,
		log:       log,
	}
}

func (p *Pipeline) RoundTrip(req *http.Request) (*http.Response, error) {
	req = p.outbound(req)

	resp, err := p.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	p.inbound(req, resp)
	return resp, nil
}

func (p *Pipeline) outbound(req *http.Request) *http.Request {
	// a RoundTripper must not modify the caller's request
	out := req.Clone(req.Context())

	if token, ok := p.tokens.Token(req.Context()); ok {
		out.Header.Set(headerAuthorization, "Bearer "+token)
	} else {
		out.Header.Del(headerAuthorization)
	}

	if out.Header.Get(headerRequestID) == "" {
		out.Header.Set(headerRequestID, uuid.NewString())
	}

	return out
}

func (p *Pipeline) inbound(req *http.Request, resp *http.Response) {
	if resp.StatusCode != http.StatusUnauthorized {
		return
	}

	p.log.Info("api rejected credentials, clearing session",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.String("request_id", req.Header.Get(headerRequestID)),
	)

	// storage is cleared before navigating so no later request picks up the
	// rejected token
	p.tokens.Clear(context.WithoutCancel(req.Context()))

	if navigation.ToLogin(p.nav, p.loginPath) {
		p.log.Debug("navigating to login", zap.String("login_path", p.loginPath))
	}
}
