package booking

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"ms-bus-booking/internal/domain"
)

type SearchRequest struct {
	RouteID string `json:"route_id"`
	Date    string `json:"date"`
}

type ChooseBusRequest struct {
	BusID string `json:"bus_id" validate:"required"`
	Date  string `json:"date"`
}

type SeatRequest struct {
	SeatNumber int `json:"seat_number"`
}

type PassengerRequest struct {
	Name   string `json:"name" validate:"required,max=100"`
	Age    int    `json:"age" validate:"gt=0"`
	Gender string `json:"gender" validate:"omitempty,max=16"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone_number" validate:"required,len=10,number"`
}

type PaymentRequest struct {
	CardNumber string  `json:"card_number" validate:"required,len=16,number"`
	CVV        string  `json:"cvv" validate:"required,len=3,number"`
	Expiry     string  `json:"expiry_date" validate:"required,expiry"`
	CardHolder string  `json:"card_holder" validate:"required,max=100"`
	Amount     float64 `json:"amount" validate:"gt=0"`
}

// normalize trims the free-text fields. Card number and CVV are checked exactly as sent.
func (p *PaymentRequest) normalize() {
	p.Expiry = strings.TrimSpace(p.Expiry)
	p.CardHolder = strings.TrimSpace(p.CardHolder)
}

func (p *PassengerRequest) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
}

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/[0-9]{2}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("expiry", func(fl validator.FieldLevel) bool {
		return expiryPattern.MatchString(fl.Field().String())
	})
	return v
}

// validationError turns the first validator failure into a ValidationError naming the field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.Validation("", "invalid request: %v", err)
	}
	fe := verrs[0]
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return domain.Validation(field, "is required")
	case "len":
		if fe.Kind() == reflect.String {
			return domain.Validation(field, "must be exactly %s digits", fe.Param())
		}
		return domain.Validation(field, "must have length %s", fe.Param())
	case "number":
		return domain.Validation(field, "must contain digits only")
	case "gt":
		return domain.Validation(field, "must be greater than %s", fe.Param())
	case "max":
		return domain.Validation(field, "must be at most %s characters", fe.Param())
	case "email":
		return domain.Validation(field, "must be a valid email address")
	case "expiry":
		return domain.Validation(field, "must be in MM/YY format")
	default:
		return domain.Validation(field, "failed %s validation", fe.Tag())
	}
}

func maskCard(number string) string {
	if len(number) < 4 {
		return number
	}
	return fmt.Sprintf("%s%s", strings.Repeat("*", len(number)-4), number[len(number)-4:])
}
