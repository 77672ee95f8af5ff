package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// decodeValid decodes the JSON body into dst and checks its validate tags.
// On failure it writes a 400 and returns false.
func decodeValid(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			http.Error(w, verrs.Error(), http.StatusBadRequest)
			return false
		}
		http.Error(w, "invalid request", http.StatusBadRequest)
		return false
	}
	return true
}
