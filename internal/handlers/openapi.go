package handlers

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/m1z23r/drift/pkg/drift"
)

type OpenAPIHandler struct {
	doc *openapi3.T
}

func NewOpenAPIHandler(doc *openapi3.T) *OpenAPIHandler {
	return &OpenAPIHandler{doc: doc}
}

func (h *OpenAPIHandler) Get(c *drift.Context) {
	_ = c.JSON(http.StatusOK, h.doc)
}
