package jsonx

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestSerializer(t *testing.T) {
	e := echo.New()
	e.JSONSerializer = Serializer{}

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	if err := c.JSON(http.StatusOK, map[string]int{"rating": 5}); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != `{"rating":5}` {
		t.Errorf("body = %s", got)
	}

	var dst struct {
		Rating int `json:"rating"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":"five"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c = e.NewContext(req, httptest.NewRecorder())
	if err := c.Bind(&dst); err == nil {
		t.Error("expected type error")
	}
}
