package http

import (
	"encoding/json"
	"net/http"

	"github.com/aussiebroadwan/otpauth/pkg/httpx"
	"github.com/aussiebroadwan/otpauth/pkg/slogx"
)

const maxBodyBytes = 64 << 10

// decodeBody reads a JSON request body into v. It writes a 400 and returns
// false when the body is missing or malformed.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		slogx.FromContext(r.Context()).Info("bad request body", "err", err)
		httpx.WriteError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	return true
}
