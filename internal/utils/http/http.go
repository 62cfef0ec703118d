package http

import (
	"encoding/json"
	ers "errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/golang/gddo/httputil/header"
	"github.com/oweek/raceday-backend/internal/utils"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	rpccode "google.golang.org/genproto/googleapis/rpc/code"
)

type envelope struct {
	Data *json.RawMessage `json:"data"`
}

//DecodeJSONBody Decodes the callable envelope ({"data": {...}}) into dst and
//validates it. Based on https://www.alexedwards.net/blog/how-to-properly-parse-a-json-request-body
func DecodeJSONBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if r.Header.Get("Content-Type") != "" {
		value, _ := header.ParseValueAndParams(r.Header, "Content-Type")
		if value != "application/json" {
			msg := "Content-Type header is not application/json"
			return &errors.MalformedRequestError{Status: http.StatusUnsupportedMediaType, Msg: msg}
		}
	} else {
		msg := "Content-Type header is not application/json"
		return &errors.MalformedRequestError{Status: http.StatusUnsupportedMediaType, Msg: msg}
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1048576)

	dec := json.NewDecoder(r.Body)

	var wrapper envelope

	err := dec.Decode(&wrapper)
	if err != nil {
		var syntaxError *json.SyntaxError

		switch {
		case ers.As(err, &syntaxError):
			msg := fmt.Sprintf("Request body contains badly-formed JSON (at position %d)", syntaxError.Offset)
			return &errors.MalformedRequestError{Status: rpccode.Code_INVALID_ARGUMENT, Msg: msg}

		case ers.Is(err, io.ErrUnexpectedEOF):
			msg := "Request body contains badly-formed JSON"
			return &errors.MalformedRequestError{Status: rpccode.Code_INVALID_ARGUMENT, Msg: msg}

		case ers.Is(err, io.EOF):
			msg := "Request body must not be empty"
			return &errors.MalformedRequestError{Status: rpccode.Code_INVALID_ARGUMENT, Msg: msg}

		case err.Error() == "http: request body too large":
			msg := "Request body must not be larger than 1MB"
			return &errors.MalformedRequestError{Status: rpccode.Code_INVALID_ARGUMENT, Msg: msg}

		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		msg := "Request body must only contain a single JSON object"
		return &errors.MalformedRequestError{Status: rpccode.Code_INVALID_ARGUMENT, Msg: msg}
	}

	if wrapper.Data == nil {
		msg := "Request body must be wrapped in 'data' field"
		return &errors.MalformedRequestError{Status: rpccode.Code_INVALID_ARGUMENT, Msg: msg}
	}

	inner := json.NewDecoder(strings.NewReader(string(*wrapper.Data)))
	inner.DisallowUnknownFields()

	err = inner.Decode(dst)
	if err != nil {
		var unmarshalTypeError *json.UnmarshalTypeError

		switch {
		case ers.As(err, &unmarshalTypeError):
			msg := fmt.Sprintf("Request body contains an invalid value for the %q field (at position %d)", unmarshalTypeError.Field, unmarshalTypeError.Offset)
			return &errors.MalformedRequestError{Status: rpccode.Code_INVALID_ARGUMENT, Msg: msg}

		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			msg := fmt.Sprintf("Request body contains unknown field %s", fieldName)
			return &errors.MalformedRequestError{Status: rpccode.Code_INVALID_ARGUMENT, Msg: msg}

		default:
			return err
		}
	}

	err = utils.Validate.Struct(dst)
	if err != nil {
		msg := fmt.Sprintf("Validation of the request has failed: %v", err.Error())
		return &errors.MalformedRequestError{Status: rpccode.Code_INVALID_ARGUMENT, Msg: msg}
	}

	return nil
}

//DecodeJSONOrReportError Decodes the request into dst; on failure reports the
//error to the client and returns false.
func DecodeJSONOrReportError(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := DecodeJSONBody(w, r, dst); err != nil {
		SendErrorResponse(w, r, err)
		return false
	}

	return true
}
