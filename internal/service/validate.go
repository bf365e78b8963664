package service

import (
	"errors"
	"strconv"

	"github.com/crucial707/todo-api/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	validate  = validator.New(validator.WithRequiredStructEnabled())
	titleRule = "required,max=" + strconv.Itoa(models.TitleMaxLen)
)

// firstFieldError returns the first failed rule, or nil when err is not a
// validation failure.
func firstFieldError(err error) validator.FieldError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0]
	}
	return nil
}

// checkTitle enforces the trimmed-title rules: present and at most 100 characters.
func checkTitle(title string) error {
	err := validate.Var(title, titleRule)
	if err == nil {
		return nil
	}
	fe := firstFieldError(err)
	if fe == nil {
		return err
	}
	if fe.Tag() == "max" {
		return ErrTitleTooLong
	}
	return ErrTitleRequired
}
