package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"marquee/pkg/logger"
	"marquee/pkg/model"
)

var seatIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,31}$`)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	messages := make([]string, 0, len(v))
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// CatalogValidator checks catalog seed definitions before they are written
// to the store.
type CatalogValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewCatalogValidator(log *logger.Logger) *CatalogValidator {
	v := validator.New()

	if err := v.RegisterValidation("seat_map", validateSeatMap); err != nil {
		log.Fatal("Failed to register 'seat_map' validator", "error", err)
	}

	return &CatalogValidator{
		validate: v,
		log:      log,
	}
}

func validateSeatMap(fl validator.FieldLevel) bool {
	value := fl.Field()
	if value.IsNil() {
		return false
	}

	seatMap, ok := value.Interface().(map[string]bool)
	if !ok {
		return false
	}

	n := len(seatMap)
	if n < 1 || n > 500 {
		return false
	}
	for seatID := range seatMap {
		if !seatIDRegex.MatchString(seatID) {
			return false
		}
	}
	return true
}

func (cv *CatalogValidator) Validate(catalog *model.Catalog) error {
	if err := cv.validate.Struct(catalog); err != nil {
		var validationErrors ValidationErrors
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range fieldErrors {
				validationErrors = append(validationErrors, ValidationError{
					Field:   fe.Field(),
					Message: messageFor(fe),
				})
			}
			return validationErrors
		}
		return err
	}
	return nil
}

// ValidateAll checks every catalog and additionally rejects duplicate
// catalog ids within one seed set.
func (cv *CatalogValidator) ValidateAll(catalogs []*model.Catalog) error {
	seen := make(map[string]bool, len(catalogs))
	for _, catalog := range catalogs {
		if err := cv.Validate(catalog); err != nil {
			return fmt.Errorf("catalog %q: %w", catalog.ID, err)
		}
		if seen[catalog.ID] {
			return fmt.Errorf("catalog %q: duplicate catalog id", catalog.ID)
		}
		seen[catalog.ID] = true
	}
	return nil
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "seat_map":
		return "must contain 1-500 seats with alphanumeric ids"
	default:
		return fmt.Sprintf("failed '%s' validation", fe.Tag())
	}
}
