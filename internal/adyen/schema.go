package adyen

import (
	"embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const (
	schemaPaymentResponse        = "payment-response"
	schemaPaymentMethodsResponse = "payment-methods-response"
	schemaNotificationRequest    = "notification-request"
)

// Compiled once at startup; an unloadable embedded schema is a programming
// error, not a runtime condition.
var schemas = map[string]*gojsonschema.Schema{
	schemaPaymentResponse:        mustCompileSchema(schemaPaymentResponse),
	schemaPaymentMethodsResponse: mustCompileSchema(schemaPaymentMethodsResponse),
	schemaNotificationRequest:    mustCompileSchema(schemaNotificationRequest),
}

func mustCompileSchema(name string) *gojsonschema.Schema {
	raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		panic(fmt.Sprintf("read embedded schema %s: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}

// validateSchema checks a decoded provider body against the named contract.
// Violations come back as a single SchemaValidationError listing every
// offending path.
func validateSchema(name string, doc Object) error {
	schema, ok := schemas[name]
	if !ok {
		panic(fmt.Sprintf("unknown schema %s", name))
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(map[string]any(doc)))
	if err != nil {
		return &SchemaValidationError{Schema: name, Failures: []string{err.Error()}}
	}
	if result.Valid() {
		return nil
	}

	failures := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		failures = append(failures, desc.String())
	}
	return &SchemaValidationError{Schema: name, Failures: failures}
}
