package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/gw-messenger/internal/middlewares"
)

// newRequest builds a test request with an optional JSON body, chi URL
// params, and the authenticated username that AuthMiddleware would have
// populated.
func newRequest(method, target string, body interface{}, username string, params map[string]string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			json.NewEncoder(&buf).Encode(b)
		}
	}

	req := httptest.NewRequest(method, target, &buf)

	ctx := req.Context()
	if username != "" {
		ctx = middlewares.SetUsernameToContext(ctx, username)
	}
	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}
