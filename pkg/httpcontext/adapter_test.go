package httpcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/mo-tomi/nowtask8/pkg/logger"
)

func TestAttachKeepsIncomingRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set(HeaderRequestID, "abc")
	rc.Request.Header.SetUserAgent("probe")

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	assert.Equal(t, "abc", appLogger.RequestID(ctx))
	assert.Equal(t, "abc", string(rc.Response.Header.Peek(HeaderRequestID)))
	assert.Equal(t, "probe", ctx.Value(KeyUserAgent))
	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestAttachGeneratesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	ctx, cancel := NewAdapter(0).Attach(&rc)
	defer cancel()

	id := appLogger.RequestID(ctx)
	assert.Len(t, id, 36)
	assert.Equal(t, id, string(rc.Response.Header.Peek(HeaderRequestID)))
}

func TestBaseCancellationPropagates(t *testing.T) {
	base, stop := context.WithCancel(context.Background())
	var rc fasthttp.RequestCtx
	ctx, cancel := NewAdapter(time.Minute, WithBase(base)).Attach(&rc)
	defer cancel()

	stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
