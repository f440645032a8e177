package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/azim128/LiveDataStream/core/handler"
	"github.com/azim128/LiveDataStream/core/response"
	"github.com/azim128/LiveDataStream/core/router"
)

type ctx = *router.Context

func newRouter(mws ...handler.Middleware[ctx]) router.Router[ctx] {
	return router.New[ctx](
		router.WithErrorHandler(response.JSONErrorHandler[ctx]),
		router.WithMiddleware(mws...),
	)
}

func text(s string) handler.Response {
	return response.String(s)
}

func do(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func echoBody(c ctx) handler.Response {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return response.Error(err)
	}
	return text(string(body))
}
