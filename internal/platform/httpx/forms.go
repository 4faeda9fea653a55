package httpx

import (
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Confirmed reports whether the request carries the explicit confirmation
// destructive endpoints require before dispatching.
func Confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true" || r.FormValue("confirm") == "true"
}

// ValidationProblem renders a 422 problem naming the offending fields.
// Only presence-style validation happens console-side; nothing was sent
// upstream when this fires.
func ValidationProblem(w http.ResponseWriter, err error) {
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		Problem(w, http.StatusUnprocessableEntity, "Validation Failed", "invalid payload")
		return
	}
	detail := "missing or invalid fields:"
	for _, fieldErr := range fieldErrs {
		detail += " " + fieldErr.Field()
	}
	Problem(w, http.StatusUnprocessableEntity, "Validation Failed", detail)
}
