package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"super-heroes-api/pkg/apierror"
)

var validate = validator.New()

// payloadError translates the first failed field of a payload validation
// into its route-specific message. Field order follows struct order, so
// the reported violation is deterministic.
func payloadError(err error, messages map[string]string) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := messages[verrs[0].Field()]; ok {
			return apierror.New("BAD_REQUEST", msg, http.StatusBadRequest)
		}
	}
	return apierror.New("BAD_REQUEST", "Invalid request body", http.StatusBadRequest)
}
