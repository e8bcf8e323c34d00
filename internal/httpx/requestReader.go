package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// MaxBodyBytes caps every decoded request body.
const MaxBodyBytes = 1 << 20

func ReadBody[InitType any](r http.Request) (InitType, error) {
	var body InitType
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, err
	}
	return body, nil
}

// ReadValidBody decodes the body and runs its validate tags. On failure it
// writes a 400 response and returns false.
func ReadValidBody[InitType any](w http.ResponseWriter, r *http.Request) (InitType, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	body, err := ReadBody[InitType](*r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return body, false
		}
		Error(w, http.StatusBadRequest, "malformed request body", err.Error())
		return body, false
	}
	if err := validate.Struct(body); err != nil {
		Error(w, http.StatusBadRequest, "validation failed", FormatValidationErrors(err)...)
		return body, false
	}
	return body, true
}

func FormatValidationErrors(err error) []string {
	var messages []string
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	for _, fieldErr := range validationErrors {
		message := fmt.Sprintf("Field '%s' failed on the '%s' tag", fieldErr.Namespace(), fieldErr.Tag())
		if fieldErr.Param() != "" {
			message = fmt.Sprintf("%s (value: %s)", message, fieldErr.Param())
		}
		messages = append(messages, message)
	}
	return messages
}
