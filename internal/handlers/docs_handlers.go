package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

// OpenAPISpec serves the registered OpenAPI document as raw JSON.
func OpenAPISpec(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
}
