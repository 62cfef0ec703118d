package http

import (
	"encoding/json"
	"net/http"

	"github.com/oweek/raceday-backend/internal/logging"
	"github.com/oweek/raceday-backend/internal/utils/errors"
	rpccode "google.golang.org/genproto/googleapis/rpc/code"
)

type dataEnvelope struct {
	Data interface{} `json:"data"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Status rpccode.Code `json:"status"`
	Msg    string       `json:"message"`
}

//SendResponse Sends the response wrapped in the callable 'data' envelope.
func SendResponse(w http.ResponseWriter, r *http.Request, response interface{}) {
	logger := logging.FromContext(r.Context())

	payload, err := json.Marshal(dataEnvelope{Data: response})
	if err != nil {
		logger.Errorf("Could not encode response: %v", err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(payload); err != nil {
		logger.Errorf("Could not write response: %v", err)
	}
}

//SendEmptyResponse Sends an empty 'data' envelope.
func SendEmptyResponse(w http.ResponseWriter, r *http.Request) {
	SendResponse(w, r, struct{}{})
}

//SendErrorResponse Sends the error wrapped in the callable 'error' envelope.
//Errors carrying a code keep it and their message. Anything untyped is an
//infrastructure failure, the detail stays in the log and the client gets a
//plain INTERNAL "Unknown error".
func SendErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())

	code := rpccode.Code_INTERNAL
	msg := "Unknown error"
	if typed, ok := err.(errors.RacedayError); ok {
		code = typed.Code()
		msg = typed.Error()
	} else {
		logger.Errorf("Masked internal error: %v", err)
	}

	body := errorEnvelope{Error: errorBody{Status: code, Msg: msg}}
	payload, encErr := json.Marshal(body)
	if encErr != nil {
		logger.Errorf("Could not encode error response: %v", encErr)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, encErr := w.Write(payload); encErr != nil {
		logger.Errorf("Could not write error response: %v", encErr)
	}
}
