package web

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/bookinv/internal/inventory"
)

// ValidationError carries per-field messages keyed by JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+" "+e.Fields[name])
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// requestValidator wraps validator/v10 with the tags the API needs:
// "column" accepts anything ParseColumn does and "scalar" rejects JSON
// objects and arrays where a cell value is expected.
type requestValidator struct {
	v *validator.Validate
}

func newRequestValidator() *requestValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("column", func(fl validator.FieldLevel) bool {
		_, err := inventory.ParseColumn(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("scalar", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.String, reflect.Bool, reflect.Float32, reflect.Float64,
			reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return true
		}
		return false
	})

	return &requestValidator{v: v}
}

func (rv *requestValidator) validate(s any) error {
	err := rv.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}

	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		fields[e.Field()] = friendlyMessage(e)
	}
	return &ValidationError{Fields: fields}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "oneof":
		return "must be one of: " + e.Param()
	case "column":
		return "is not a known column"
	case "scalar":
		return "must be a string, number or boolean"
	default:
		return "is invalid"
	}
}

// bookRequest is the body of POST and PUT /api/books. Values arrive as
// strings or numbers and are coerced the same way spreadsheet cells are.
type bookRequest struct {
	Title        any `json:"title" validate:"omitempty,scalar"`
	CopyCount    any `json:"copy_count" validate:"omitempty,scalar"`
	Value        any `json:"value" validate:"omitempty,scalar"`
	MissingCount any `json:"missing_count" validate:"omitempty,scalar"`
	TotalCount   any `json:"total_count" validate:"omitempty,scalar"`
	AveragePrice any `json:"average_price" validate:"omitempty,scalar"`
}

func (b bookRequest) fields() inventory.Fields {
	return inventory.Fields{
		Title:        inventory.CoerceText(b.Title),
		CopyCount:    inventory.CoerceInt(b.CopyCount, 0),
		Value:        inventory.CoerceFloat(b.Value, 0),
		MissingCount: inventory.CoerceInt(b.MissingCount, 0),
		TotalCount:   inventory.CoerceInt(b.TotalCount, 0),
		AveragePrice: inventory.CoerceFloat(b.AveragePrice, 0),
	}
}

// listQuery is the query string of GET /api/books and /api/search.
type listQuery struct {
	Q      string `json:"q" validate:"max=500"`
	Column string `json:"column" validate:"omitempty,column"`
	Sort   string `json:"sort" validate:"omitempty,column"`
	Dir    string `json:"dir" validate:"omitempty,oneof=asc desc"`
}
