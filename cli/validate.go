package cli

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// checkInput validates a command's input struct and turns validator output
// into a flat, printable message. Format validation happens here, before the
// session store or the API is touched.
func checkInput(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s is %s", strings.ToLower(fe.Field()), tagMessage(fe)))
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "email":
		return "not a valid email address"
	case "len":
		return "the wrong length (want " + fe.Param() + " characters)"
	case "oneof":
		return "not one of: " + fe.Param()
	case "min":
		return "too short (min " + fe.Param() + ")"
	case "max":
		return "too long (max " + fe.Param() + ")"
	}
	return "invalid"
}
