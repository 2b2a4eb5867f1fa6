package handler

import "github.com/labstack/echo/v4"

// Response is the uniform envelope for every API reply. Code 0 means success;
// any other value is the stable numeric code of the failing error kind. The
// HTTP status is set independently by the error classifier.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Success writes a success envelope with the given HTTP status.
func Success(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Response{Code: 0, Message: message, Data: data})
}
