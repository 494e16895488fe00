package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/codemart-app/backend/errs"
)

// parseUintParam reads a numeric chi URL parameter.
func parseUintParam(r *http.Request, name string) (uint, *errs.ApiErr) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return 0, errs.NewBadRequestError("missing " + name)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errs.NewBadRequestError("invalid " + name)
	}
	return uint(id), nil
}

// parseMonthParam reads the month URL parameter, constrained to [1,12].
func parseMonthParam(r *http.Request) (int, *errs.ApiErr) {
	raw := chi.URLParam(r, "month")
	month, err := strconv.Atoi(raw)
	if err != nil || month < 1 || month > 12 {
		return 0, errs.NewInvalidFieldError("month", "must be an integer between 1 and 12")
	}
	return month, nil
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) *errs.ApiErr {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errs.NewBadRequestError("malformed request body")
	}
	return nil
}
