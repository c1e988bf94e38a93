package http

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/credvault/pkg/vaultsdk"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Request body schemas, compiled once at startup.
var (
	loginSchema                 = mustSchema("login.json")
	registerAdministratorSchema = mustSchema("register_administrator.json")
	accountSchema               = mustSchema("account.json")
	modifyAccountSchema         = mustSchema("modify_account.json")
)

const maxBodyBytes = 64 << 10

func mustSchema(name string) *gojsonschema.Schema {
	raw, err := schemaFS.ReadFile("schemas/" + name)
	if err != nil {
		panic(fmt.Sprintf("read schema %s: %v", name, err))
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		panic(fmt.Sprintf("compile schema %s: %v", name, err))
	}
	return schema
}

// decodeJSON reads the request body, validates it against schema and decodes
// it into dst. The returned error writes itself: either a *vaultsdk.APIError
// or a *vaultsdk.ValidationError.
func decodeJSON(w http.ResponseWriter, r *http.Request, schema *gojsonschema.Schema, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		mediaType, _, err := mime.ParseMediaType(ct)
		if err != nil || mediaType != "application/json" {
			return vaultsdk.ErrInvalidContentType
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return vaultsdk.ErrInvalidRequest.WithDescription("request body too large")
		}
		return vaultsdk.ErrInvalidRequest.WithDescription("failed to read request body")
	}
	if !json.Valid(body) {
		return vaultsdk.ErrInvalidRequest.WithDescription("request body must be valid JSON")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return vaultsdk.ErrInvalidRequest.WithDescription("request body must be valid JSON")
	}
	if !result.Valid() {
		return &vaultsdk.ValidationError{
			Message: "validation failed for some fields",
			Details: validationDetails(result.Errors()),
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return vaultsdk.ErrInvalidRequest.WithDescription("request body has the wrong shape")
	}
	return nil
}

// validationDetails flattens schema errors to field name => reason. A missing
// property is reported under its own name rather than its parent.
func validationDetails(errs []gojsonschema.ResultError) map[string]string {
	details := make(map[string]string, len(errs))
	for _, desc := range errs {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				if field == "(root)" {
					field = prop
				} else {
					field = field + "." + prop
				}
			}
		}
		if _, seen := details[field]; !seen {
			details[field] = desc.Description()
		}
	}
	return details
}

type selfWriting interface {
	WriteError(w http.ResponseWriter)
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var sw selfWriting
	if errors.As(err, &sw) {
		sw.WriteError(w)
		return
	}
	vaultsdk.ErrInvalidRequest.WriteError(w)
}
