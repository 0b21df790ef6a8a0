package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"agririsk-back/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Number is a JSON reading that accepts a number or a numeric string such
// as "80".
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return &json.UnmarshalTypeError{Value: "non-numeric value", Type: reflect.TypeOf(float64(0))}
	}
	*n = Number(v)
	return nil
}

// bindJSON binds the request body into obj and turns binding failures into
// validation errors that name the JSON fields involved.
func bindJSON(c *gin.Context, obj any) error {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return nil
	}

	var (
		verrs   validator.ValidationErrors
		typeErr *json.UnmarshalTypeError
	)
	switch {
	case errors.As(err, &verrs):
		t := reflect.TypeOf(obj)
		for t.Kind() == reflect.Pointer {
			t = t.Elem()
		}

		var missing, invalid []string
		for _, fe := range verrs {
			name := jsonFieldName(t, fe.StructField())
			if fe.Tag() == "required" {
				missing = append(missing, name)
			} else {
				invalid = append(invalid, name)
			}
		}
		if len(missing) > 0 {
			return apperr.Validation(fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")), err)
		}
		return apperr.Validation(fmt.Sprintf("invalid fields: %s", strings.Join(invalid, ", ")), err)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		return apperr.Validation(fmt.Sprintf("invalid value for field: %s", typeErr.Field), err)
	default:
		return apperr.Validation("request body must be a valid JSON object", err)
	}
}

func jsonFieldName(t reflect.Type, structField string) string {
	f, ok := t.FieldByName(structField)
	if !ok {
		return structField
	}
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return structField
	}
	return name
}
