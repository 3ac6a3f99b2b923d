package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	rt := New(WithRoutes(Route{
		Path:   "/v1/sales/summary",
		Method: http.MethodGet,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			order = append(order, "handler")
		}),
		Middlewares: []func(http.Handler) http.Handler{mark("first"), mark("second")},
	}))

	recorder := httptest.NewRecorder()
	rt.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/sales/summary", nil))
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"first", "second", "handler"}, order)

	recorder = httptest.NewRecorder()
	rt.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "VAL_004")

	recorder = httptest.NewRecorder()
	rt.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/v1/sales/summary", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)

	assert.Equal(t, []string{"GET /v1/sales/summary"}, rt.Routes())
}
