package httpapi

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-locations/internal/weather"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Login checks the email format itself so it can report its own message.
type loginRequest struct {
	Email string `json:"email" validate:"required"`
}

type searchRequest struct {
	Location string `json:"location" validate:"required"`
}

// Coordinates are pointers so that 0 is accepted while a missing value is not.
type locationBody struct {
	Name      string   `json:"name" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type saveRequest struct {
	Email      string       `json:"email" validate:"required,email"`
	Location   locationBody `json:"location"`
	CustomName *string      `json:"custom_name"`
}

type removeRequest struct {
	Email      string `json:"email" validate:"required,email"`
	LocationID int64  `json:"location_id" validate:"required,min=1"`
}

type coordinatesRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

type historyRequest struct {
	Email          string `json:"email" validate:"required,email"`
	UserLocationID int64  `json:"user_location_id" validate:"required,min=1"`
	Year           int    `json:"year" validate:"required,min=1940"`
	Month          int    `json:"month" validate:"required,min=1,max=12"`
}

// bind parses the JSON body into dest and validates it. Failures are
// returned as weather.ErrValidation.
func bind(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return weather.NewError(weather.ErrValidation, "Invalid request body")
	}
	if err := validate.Struct(dest); err != nil {
		return weather.NewError(weather.ErrValidation, validationMessage(err))
	}
	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	field := fe.Field()
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
		field = path
	}

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "latitude":
		return field + " must be between -90 and 90"
	case "longitude":
		return field + " must be between -180 and 180"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return field + " is invalid"
	}
}
