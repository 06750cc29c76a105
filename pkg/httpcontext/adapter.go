// Package httpcontext derives request-scoped contexts from fasthttp requests.
package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/mo-tomi/nowtask8/pkg/logger"
)

// HeaderRequestID is read from requests and echoed on responses.
const HeaderRequestID = "X-Request-ID"

type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
)

// Adapter converts a fasthttp.RequestCtx into a context with deadline and
// request metadata.
type Adapter struct {
	base    context.Context
	timeout time.Duration
}

type Option func(*Adapter)

// WithBase roots every request context in ctx so cancelling it aborts
// in-flight requests.
func WithBase(ctx context.Context) Option {
	return func(a *Adapter) {
		if ctx != nil {
			a.base = ctx
		}
	}
}

func NewAdapter(timeout time.Duration, opts ...Option) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	a := &Adapter{base: context.Background(), timeout: timeout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Attach returns the request context; callers must call cancel.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(a.base, a.timeout)

	reqID := requestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set(HeaderRequestID, reqID)

	if addr := ctx.RemoteAddr(); addr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, addr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	return stdCtx, cancel
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if id := strings.TrimSpace(string(ctx.Request.Header.Peek(HeaderRequestID))); id != "" {
		return id
	}
	return uuid.NewString()
}
