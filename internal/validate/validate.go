// Package validate checks request payloads against their struct tags and
// renders the first failure as an English message.
package validate

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

var translator ut.Translator

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Money fields are compared numerically so gte/lte tags apply to them.
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	translator, _ = ut.New(en.New(), en.New()).GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)
}

// Check validates the struct and returns the first failure, translated.
func Check(val any) error {
	if err := validate.Struct(val); err != nil {
		var verrors validator.ValidationErrors
		if !errors.As(err, &verrors) {
			return err
		}

		if len(verrors) < 1 {
			return nil
		}

		return errors.New(verrors[0].Translate(translator))
	}

	return nil
}

// MaxPrice is the largest price a NUMERIC(10,2) column holds.
var MaxPrice = decimal.RequireFromString("99999999.99")

// Price rejects prices with more than two decimal places or above MaxPrice.
func Price(d decimal.Decimal) error {
	if !d.Equal(d.Round(2)) {
		return errors.New("price must have at most 2 decimal places")
	}
	if d.GreaterThan(MaxPrice) {
		return errors.New("price must be at most " + MaxPrice.StringFixed(2))
	}
	return nil
}

// ParseID parses a path identifier.
func ParseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, errors.New("ID is not in its proper form")
	}
	return parsed, nil
}
