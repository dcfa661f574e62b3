package steps

import (
	"context"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// apiMockHandler installs an intercept on the current page that
// fulfills matching requests with a configured response and falls
// through for method mismatches (spec.md §4.4). Grounded on go-rod's
// HijackRequests router, the idiomatic Go analog to Playwright's
// page.route used by the original implementation.
type apiMockHandler struct{}

func (apiMockHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	urlPattern, err := requireStrParam(params, "url_pattern")
	if err != nil {
		return err
	}
	method, _ := strParam(params, "method")
	status := intParam(params, "status", 200)
	body, _ := strParam(params, "body")

	router := page.HijackRequests()
	router.MustAdd(urlPattern, func(h *rod.Hijack) {
		if method != "" && !strings.EqualFold(h.Request.Method(), method) {
			h.ContinueRequest(&proto.FetchContinueRequest{})
			return
		}
		h.Response.SetHeader("Content-Type", "application/json")
		h.Response.Payload().ResponseCode = status
		h.Response.Payload().Body = []byte(body)
		_ = h.LoadResponse(nil, true)
	})
	go router.Run()
	return nil
}

func (apiMockHandler) DescribeSchema() Schema {
	return Schema{Name: "api_mock", Category: "mock", Description: "intercept matching requests with a fixed JSON response"}
}

// routeStubHandler delegates to the same hijack machinery as api_mock,
// with handler_id selecting a named stub payload instead of an inline one.
type routeStubHandler struct{ stubs map[string]stubPayload }

type stubPayload struct {
	Status int
	Body   string
}

func (h routeStubHandler) Execute(ctx context.Context, page *rod.Page, params map[string]any, sc *StepContext) error {
	urlPattern, err := requireStrParam(params, "url_pattern")
	if err != nil {
		return err
	}
	handlerID, err := requireStrParam(params, "handler_id")
	if err != nil {
		return err
	}
	stub, ok := h.stubs[handlerID]
	if !ok {
		stub = stubPayload{Status: 200, Body: "{}"}
	}

	router := page.HijackRequests()
	router.MustAdd(urlPattern, func(hj *rod.Hijack) {
		hj.Response.SetHeader("Content-Type", "application/json")
		hj.Response.Payload().ResponseCode = stub.Status
		hj.Response.Payload().Body = []byte(stub.Body)
		_ = hj.LoadResponse(nil, true)
	})
	go router.Run()
	return nil
}

func (h routeStubHandler) DescribeSchema() Schema {
	return Schema{Name: "route_stub", Category: "mock", Description: "intercept matching requests with a named stub payload"}
}
