package validation

import (
	"reflect"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Letters, spaces and the punctuation people actually put in names: . ' -
	nameRegex = regexp.MustCompile(`^[\p{L} .'-]+$`)

	// Optional +, then 7-15 digits
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{7,15}$`)
)

// New returns a validator that reports json field names and knows the
// custom tags used across the API.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonTagName)
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("valid_phone", ValidPhone)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("max_current_year", MaxCurrentYear)
	_ = v.RegisterValidation("not_blank", NotBlank)
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// ValidName rejects digits and most symbols.
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

func ValidPhone(fl validator.FieldLevel) bool {
	val := strings.NewReplacer(" ", "", "-", "").Replace(fl.Field().String())
	if val == "" {
		return true
	}
	return phoneRegex.MatchString(val)
}

// NoEmoji rejects supplementary-plane characters and symbol categories.
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// MaxCurrentYear is used for education years; zero means unset.
func MaxCurrentYear(fl validator.FieldLevel) bool {
	year := fl.Field().Int()
	if year == 0 {
		return true
	}
	return year <= int64(time.Now().Year()+10)
}

// NotBlank fails on strings made only of whitespace.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
