package advisory

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	llmclient "iplinsight/internal/llmClient"
	"iplinsight/internal/util/jsonutil"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Decode parses raw against schema and decodes it into T. Any structural
// mismatch or failed field rule is reported as a *MalformedResponseError.
func Decode[T any](raw []byte, schema *llmclient.Schema) (T, error) {
	var zero T
	var generic any
	if err := jsonutil.UnmarshalFlex(raw, &generic); err != nil {
		return zero, malformed("", "not valid JSON", err)
	}
	// double-encoded payloads decode to a string first
	if s, ok := generic.(string); ok && schema != nil && schema.Type != llmclient.TypeString {
		if err := jsonutil.UnmarshalFlex([]byte(s), &generic); err != nil {
			return zero, malformed("", "not valid JSON", err)
		}
	}
	if err := CheckShape(schema, generic); err != nil {
		return zero, err
	}
	b, err := json.Marshal(generic)
	if err != nil {
		return zero, malformed("", "re-encode", err)
	}
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		return zero, malformed("", "decode", err)
	}
	if err := validateRules(out); err != nil {
		return zero, err
	}
	return out, nil
}

// CheckShape confirms that v, a value produced by encoding/json, has every
// required field and the basic type declared by schema. Unknown fields are
// tolerated.
func CheckShape(schema *llmclient.Schema, v any) error {
	return checkShape(schema, v, "$")
}

func checkShape(s *llmclient.Schema, v any, path string) error {
	if s == nil {
		return nil
	}
	switch s.Type {
	case llmclient.TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return malformed(path, "expected object, got "+kindOf(v), nil)
		}
		for _, name := range s.Required {
			if val, ok := obj[name]; !ok || val == nil {
				return malformed(path+"."+name, "missing required field", nil)
			}
		}
		for _, name := range s.PropertyNames() {
			val, ok := obj[name]
			if !ok || val == nil {
				continue
			}
			if err := checkShape(s.Properties[name], val, path+"."+name); err != nil {
				return err
			}
		}
	case llmclient.TypeArray:
		arr, ok := v.([]any)
		if !ok {
			return malformed(path, "expected array, got "+kindOf(v), nil)
		}
		for i, item := range arr {
			if err := checkShape(s.Items, item, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	case llmclient.TypeString:
		if _, ok := v.(string); !ok {
			return malformed(path, "expected string, got "+kindOf(v), nil)
		}
	case llmclient.TypeNumber:
		if _, ok := v.(float64); !ok {
			return malformed(path, "expected number, got "+kindOf(v), nil)
		}
	case llmclient.TypeInteger:
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			return malformed(path, "expected integer, got "+kindOf(v), nil)
		}
	case llmclient.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return malformed(path, "expected boolean, got "+kindOf(v), nil)
		}
	}
	return nil
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func validateRules(v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Struct:
		if err := validate.Struct(v); err != nil {
			return malformed("$", "field rules", err)
		}
	case reflect.Slice:
		for i := 0; i < rv.Len(); i++ {
			elem := rv.Index(i)
			if elem.Kind() != reflect.Struct {
				continue
			}
			if err := validate.Struct(elem.Interface()); err != nil {
				return malformed(fmt.Sprintf("$[%d]", i), "field rules", err)
			}
		}
	}
	return nil
}
