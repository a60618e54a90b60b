// Package response writes the uniform JSON envelope every API endpoint
// returns:
//
//	{"statusCode": "404", "statusMessage": "Review not found", "successful": false, "data": null}
//
// The transport status is always 200; the outcome lives in statusCode and is
// mirrored in the X-Status-Code header for proxies and the response cache.
package response

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// HeaderStatusCode carries the envelope status on the HTTP response.
const HeaderStatusCode = "X-Status-Code"

// Envelope is the body of every API response.
type Envelope struct {
	StatusCode    string `json:"statusCode"`
	StatusMessage string `json:"statusMessage"`
	Successful    bool   `json:"successful"`
	Data          any    `json:"data"`
}

// New builds an envelope; successful is derived from code.
func New(code int, message string, data any) Envelope {
	return Envelope{
		StatusCode:    strconv.Itoa(code),
		StatusMessage: message,
		Successful:    code >= 200 && code < 300,
		Data:          data,
	}
}

// JSON writes the envelope for code with transport status 200.
func JSON(c echo.Context, code int, message string, data any) error {
	c.Response().Header().Set(HeaderStatusCode, strconv.Itoa(code))
	return c.JSON(http.StatusOK, New(code, message, data))
}

func OK(c echo.Context, message string, data any) error {
	return JSON(c, http.StatusOK, message, data)
}

func Created(c echo.Context, message string, data any) error {
	return JSON(c, http.StatusCreated, message, data)
}

// Fail writes an unsuccessful envelope with null data.
func Fail(c echo.Context, code int, message string) error {
	return JSON(c, code, message, nil)
}
