package errors

import rpccode "google.golang.org/genproto/googleapis/rpc/code"

//RacedayError Error with code.
type RacedayError interface {
	Code() rpccode.Code
	Error() string
}

//CustomError Custom error (who would guess)
type CustomError struct {
	Msg string
}

func (e *CustomError) Error() string {
	return e.Msg
}

//UnknownError Unknown error
type UnknownError struct {
	Msg string
}

func (e *UnknownError) Error() string {
	return e.Msg
}

//Code Code of the error.
func (e *UnknownError) Code() rpccode.Code {
	return rpccode.Code_INTERNAL
}

//MalformedRequestError Error for malformed request
type MalformedRequestError struct {
	Status rpccode.Code
	Msg    string
}

func (mr *MalformedRequestError) Error() string {
	return mr.Msg
}

//Code Code of the error.
func (mr *MalformedRequestError) Code() rpccode.Code {
	return rpccode.Code_INVALID_ARGUMENT
}

//NotFoundError Error for a missing entity
type NotFoundError struct {
	Msg string
}

func (mr *NotFoundError) Error() string {
	return mr.Msg
}

//Code Code of the error.
func (mr *NotFoundError) Code() rpccode.Code {
	return rpccode.Code_NOT_FOUND
}

//UnauthenticatedError Error for a missing or invalid identity
type UnauthenticatedError struct {
	Msg string
}

func (e *UnauthenticatedError) Error() string {
	return e.Msg
}

//Code Code of the error.
func (e *UnauthenticatedError) Code() rpccode.Code {
	return rpccode.Code_UNAUTHENTICATED
}

//PermissionDeniedError Error for a caller without the required role
type PermissionDeniedError struct {
	Msg string
}

func (e *PermissionDeniedError) Error() string {
	return e.Msg
}

//Code Code of the error.
func (e *PermissionDeniedError) Code() rpccode.Code {
	return rpccode.Code_PERMISSION_DENIED
}

//IllegalTransitionError Error for a state transition the rules forbid
type IllegalTransitionError struct {
	Msg string
}

func (e *IllegalTransitionError) Error() string {
	return e.Msg
}

//Code Code of the error.
func (e *IllegalTransitionError) Code() rpccode.Code {
	return rpccode.Code_INVALID_ARGUMENT
}
