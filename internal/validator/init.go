package validator

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar date format sent by the HTML date input.
const DateLayout = "2006-01-02"

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := validate.RegisterValidation("ymd", isCalendarDate); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

// isCalendarDate accepts strings of the form YYYY-MM-DD naming a real day.
func isCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}
