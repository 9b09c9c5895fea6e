// Package openapi builds the OpenAPI 3.1 document served at /api/openapi.json.
package openapi

import (
	"fmt"
	"regexp"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	schemaAPIKey   = "ApiKey"
	schemaRequest  = "ApiKeyRequest"
	schemaError    = "ErrorResponse"
	schemaMessage  = "MessageResponse"
	schemaStats    = "ApiKeyStats"
	schemaVerified = "VerifiedApiKey"
	tagKeys        = "keys"
)

func ref(name string) *openapi3.SchemaRef {
	return openapi3.NewSchemaRef("#/components/schemas/"+name, nil)
}

// Document describes the REST surface. keyPrefix is reflected in the key pattern.
func Document(serverURL, keyPrefix string) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.1.0",
		Info: &openapi3.Info{
			Title:       "API Key Dashboard",
			Description: "Create, list, rename and delete API keys.",
			Version:     "1.0.0",
		},
		Servers: openapi3.Servers{
			{URL: serverURL},
		},
	}

	components := openapi3.NewComponents()
	components.Schemas = componentSchemas(keyPrefix)
	components.SecuritySchemes = openapi3.SecuritySchemes{
		"apiKey": &openapi3.SecuritySchemeRef{
			Value: &openapi3.SecurityScheme{
				Type:   "http",
				Scheme: "bearer",
			},
		},
	}
	doc.Components = &components

	idParam := openapi3.Parameters{
		&openapi3.ParameterRef{
			Value: openapi3.NewPathParameter("id").
				WithDescription("API key id.").
				WithSchema(openapi3.NewUUIDSchema()),
		},
	}

	requestBody := &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(ref(schemaRequest)),
	}

	keyList := openapi3.NewArraySchema()
	keyList.Items = ref(schemaAPIKey)

	doc.Paths = openapi3.NewPaths()

	doc.Paths.Set("/api/keys", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{tagKeys},
			Summary:     "List API keys",
			Description: "All keys of the caller, most recently created first.",
			OperationID: "listApiKeys",
			Responses:   newResponses("200", "API keys", keyList.NewRef()),
		},
		Post: &openapi3.Operation{
			Tags:        []string{tagKeys},
			Summary:     "Create an API key",
			OperationID: "createApiKey",
			RequestBody: requestBody,
			Responses:   newResponses("201", "Created API key", ref(schemaAPIKey), "400"),
		},
	})

	doc.Paths.Set("/api/keys/{id}", &openapi3.PathItem{
		Parameters: idParam,
		Get: &openapi3.Operation{
			Tags:        []string{tagKeys},
			Summary:     "Get an API key",
			OperationID: "getApiKey",
			Responses:   newResponses("200", "API key", ref(schemaAPIKey), "404"),
		},
		Put: &openapi3.Operation{
			Tags:        []string{tagKeys},
			Summary:     "Rename an API key",
			OperationID: "renameApiKey",
			RequestBody: requestBody,
			Responses:   newResponses("200", "Renamed API key", ref(schemaAPIKey), "400", "404"),
		},
		Delete: &openapi3.Operation{
			Tags:        []string{tagKeys},
			Summary:     "Delete an API key",
			OperationID: "deleteApiKey",
			Responses:   newResponses("200", "Deleted", ref(schemaMessage), "404"),
		},
	})

	doc.Paths.Set("/api/stats", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{tagKeys},
			Summary:     "API key totals",
			OperationID: "apiKeyStats",
			Responses:   newResponses("200", "Totals", ref(schemaStats)),
		},
	})

	doc.Paths.Set("/api/auth/verify", &openapi3.PathItem{
		Get: &openapi3.Operation{
			Tags:        []string{tagKeys},
			Summary:     "Verify a presented API key",
			Description: "Resolves the bearer key and records its use.",
			OperationID: "verifyApiKey",
			Security:    &openapi3.SecurityRequirements{{"apiKey": {}}},
			Responses:   newResponses("200", "Verified key, masked", ref(schemaVerified), "401"),
		},
	})

	return doc
}

func componentSchemas(keyPrefix string) openapi3.Schemas {
	keyPattern := fmt.Sprintf("^%s[0-9a-f]{64}$", regexp.QuoteMeta(keyPrefix))
	timestamp := openapi3.NewDateTimeSchema()

	return openapi3.Schemas{
		schemaAPIKey: &openapi3.SchemaRef{
			Value: openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewUUIDSchema()).
				WithProperty("name", openapi3.NewStringSchema()).
				WithProperty("key", openapi3.NewStringSchema().WithPattern(keyPattern)).
				WithProperty("createdAt", timestamp).
				WithProperty("lastUsed", timestamp).
				WithRequired([]string{"id", "name", "key", "createdAt"}),
		},
		schemaRequest: &openapi3.SchemaRef{
			Value: openapi3.NewObjectSchema().
				WithProperty("name", openapi3.NewStringSchema().WithMinLength(2).WithMaxLength(50)).
				WithRequired([]string{"name"}),
		},
		schemaError: &openapi3.SchemaRef{
			Value: openapi3.NewObjectSchema().
				WithProperty("error", openapi3.NewStringSchema()).
				WithRequired([]string{"error"}),
		},
		schemaMessage: &openapi3.SchemaRef{
			Value: openapi3.NewObjectSchema().
				WithProperty("message", openapi3.NewStringSchema()).
				WithRequired([]string{"message"}),
		},
		schemaStats: &openapi3.SchemaRef{
			Value: openapi3.NewObjectSchema().
				WithProperty("totalKeys", openapi3.NewInt64Schema()).
				WithProperty("activeKeys", openapi3.NewInt64Schema()).
				WithProperty("unusedKeys", openapi3.NewInt64Schema()).
				WithProperty("recentKeys", openapi3.NewInt64Schema()).
				WithProperty("totalUsage", openapi3.NewInt64Schema()).
				WithProperty("lastUsed", timestamp).
				WithRequired([]string{"totalKeys", "activeKeys", "unusedKeys", "recentKeys", "totalUsage"}),
		},
		schemaVerified: &openapi3.SchemaRef{
			Value: openapi3.NewObjectSchema().
				WithProperty("id", openapi3.NewUUIDSchema()).
				WithProperty("name", openapi3.NewStringSchema()).
				WithProperty("key", openapi3.NewStringSchema()).
				WithProperty("usageCount", openapi3.NewInt64Schema()).
				WithProperty("createdAt", timestamp).
				WithProperty("lastUsed", timestamp).
				WithRequired([]string{"id", "name", "key", "usageCount", "createdAt"}),
		},
	}
}

var errorDescriptions = map[string]string{
	"400": "Invalid name",
	"401": "Missing or invalid API key",
	"404": "API key not found",
	"500": "Storage failure",
}

// newResponses adds the success response, the listed error codes and always 500.
func newResponses(statusCode, description string, schema *openapi3.SchemaRef, errorCodes ...string) *openapi3.Responses {
	responses := openapi3.NewResponses()

	successDesc := description
	responses.Set(statusCode, &openapi3.ResponseRef{
		Value: &openapi3.Response{
			Description: &successDesc,
			Content:     openapi3.NewContentWithJSONSchemaRef(schema),
		},
	})

	for _, code := range append(errorCodes, "500") {
		desc := errorDescriptions[code]
		responses.Set(code, &openapi3.ResponseRef{
			Value: &openapi3.Response{
				Description: &desc,
				Content:     openapi3.NewContentWithJSONSchemaRef(ref(schemaError)),
			},
		})
	}

	return responses
}
