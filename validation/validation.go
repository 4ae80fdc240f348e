package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/aitoolhub/search-service/logger"
	"github.com/go-playground/validator"
)

const (
	maxQueryLength       = 200
	maxPathSegmentLength = 100
	maxRoutePathLength   = 500
)

type Validator struct {
	validator                *validator.Validate
	logger                   logger.Logger
	tagValidationDetailsOnce sync.Once
	tagValidationDetailsMap  map[string]tagValidationDetails
}

type tagValidationDetails struct {
	validatorFunc validator.Func
	err           error
}

func New(logger logger.Logger) (*Validator, error) {
	validator := &Validator{validator: validator.New(), logger: logger}
	validator.validator.RegisterTagNameFunc(useJSONFieldNames)
	if err := validator.registerCustomValidatorsForTags(); err != nil {
		return nil, err
	}

	return validator, nil
}

func (v *Validator) Validate(i any) error {

	if err := v.validator.Struct(i); err != nil {
		v.logger.Warn("validation failed", "err", err.Error())
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {

			tagValidationDetails, ok := v.getTagValidationDetails()[validationErrs[0].Tag()]
			if ok {
				return tagValidationDetails.err
			}

			switch validationErrs[0].Tag() {
			case "required":
				return fmt.Errorf("missing required field '%s'", validationErrs[0].Field())

			case "min", "max":
				return fmt.Errorf("value or length of field '%s' is not in the expected range", validationErrs[0].Field())

			}
		}
		return err
	}
	return nil
}

func (v *Validator) getTagValidationDetails() map[string]tagValidationDetails {
	v.tagValidationDetailsOnce.Do(func() {
		v.tagValidationDetailsMap = map[string]tagValidationDetails{
			"valid_query":   {validatorFunc: v.isValidQuery, err: errors.New("invalid query")},
			"valid_sort":    {validatorFunc: v.isValidSort, err: errors.New("invalid sort, must be one of relevance, popularity, newest, alphabetical")},
			"valid_entity":  {validatorFunc: v.isValidEntity, err: errors.New("invalid entity, must be one of content, company, job, user")},
			"valid_segment": {validatorFunc: v.isValidPathSegment, err: errors.New("invalid path segment")},
		}
	})
	return v.tagValidationDetailsMap
}

func (v *Validator) registerCustomValidatorsForTags() error {

	tagValidationDetailsMap := v.getTagValidationDetails()

	for tag, tagValidationDetails := range tagValidationDetailsMap {
		if err := v.validator.RegisterValidation(tag, tagValidationDetails.validatorFunc); err != nil {
			v.logger.Error("failed to register custom validator function", "err", err.Error())
			return err
		}
	}
	return nil
}

func useJSONFieldNames(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// A query may be empty (browse mode), but a non-empty one is bounded and
// must not carry markup characters.
func (v *Validator) isValidQuery(fl validator.FieldLevel) bool {
	query := fl.Field().String()
	if len(query) == 0 {
		return true
	}
	if len(query) > maxQueryLength {
		v.logger.Warn("query exceeds maximum length", "length", len(query))
		return false
	}
	if strings.ContainsAny(query, "<>") {
		v.logger.Warn("query contains markup characters")
		return false
	}

	return true
}

func (v *Validator) isValidSort(fl validator.FieldLevel) bool {
	sort := fl.Field().String()
	if len(sort) == 0 {
		return true
	}
	switch sort {
	case "relevance", "popularity", "newest", "alphabetical":
		return true
	}
	return false
}

func (v *Validator) isValidEntity(fl validator.FieldLevel) bool {
	entity := fl.Field().String()
	switch entity {
	case "content", "company", "job", "user":
		return true
	}
	return false
}

func (v *Validator) isValidPathSegment(fl validator.FieldLevel) bool {
	return ValidatePathSegment(fl.Field().String())
}

// ValidatePathSegment reports whether a single URL path segment is safe to
// forward to the backend.
func ValidatePathSegment(segment string) bool {
	if len(segment) == 0 || len(segment) > maxPathSegmentLength {
		return false
	}
	if strings.Contains(segment, "..") || strings.Contains(segment, "//") {
		return false
	}
	if strings.ContainsAny(segment, `<>"'`) {
		return false
	}

	return true
}

// ParseLimit parses a limit query parameter. An absent value yields
// defaultLimit; a present but malformed or out-of-range value is a client
// error, not something to silently clamp.
func ParseLimit(raw string, defaultLimit, min, max int) (int, error) {
	if len(strings.TrimSpace(raw)) == 0 {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be a number between %d and %d", min, max)
	}
	if limit < min || limit > max {
		return 0, fmt.Errorf("limit must be a number between %d and %d", min, max)
	}

	return limit, nil
}

// SanitizeRoutePath normalizes a route path on a best-effort basis. It is a
// normalizer, not a security boundary.
func SanitizeRoutePath(path string) string {
	path = strings.ReplaceAll(path, "\x00", "")

	for strings.Contains(path, "..") {
		path = strings.ReplaceAll(path, "..", "")
	}

	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if len(path) > maxRoutePathLength {
		path = path[:maxRoutePathLength]
	}

	return path
}
