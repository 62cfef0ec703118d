package auth

import (
	"net/http"
	"strings"
)

//TokenFromRequest Extracts the bearer ID token from the Authorization header.
//Returns an empty string when the header is missing or not a bearer token.
func TokenFromRequest(r *http.Request) string {
	value := r.Header.Get("Authorization")
	if strings.HasPrefix(value, "Bearer ") {
		return strings.TrimPrefix(value, "Bearer ")
	}
	return ""
}
