package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// requestError is a rejected request body, already mapped to a response code.
type requestError struct {
	code string
	msg  string
}

func (e *requestError) Error() string { return e.msg }

// decodeJSON reads a single JSON object into dst and runs its validate tags.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &requestError{code: codeInvalidRequestBody, msg: "invalid request body"}
	}
	if err := validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &requestError{code: codeInvalidRequestBody, msg: "invalid request body"}
	}
	fe := verrs[0]
	field := jsonFieldName(fe.Namespace())
	switch fe.Tag() {
	case "required", "required_with", "required_without":
		return &requestError{code: codeMissingRequiredField, msg: field + " is required"}
	case "datetime":
		return &requestError{code: codeInvalidDate, msg: field + " must be YYYY-MM-DD"}
	case "uuid", "uuid4":
		return &requestError{code: codeInvalidID, msg: field + " must be a UUID"}
	}
	return &requestError{code: codeInvalidRequestBody, msg: field + " is invalid"}
}

// jsonFieldName drops the struct name: "createContractRequest.duration.unit"
// becomes "duration.unit".
func jsonFieldName(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// writeRequestError answers a decode or parse failure.
func writeRequestError(w http.ResponseWriter, err error) {
	var rerr *requestError
	if errors.As(err, &rerr) {
		writeError(w, http.StatusBadRequest, rerr.code, rerr.msg)
		return
	}
	writeServiceError(w, err)
}
