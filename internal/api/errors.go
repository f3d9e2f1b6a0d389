// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeUnauthorized
	ErrTypeTimeout
	ErrTypeConnection
	ErrTypeBadRequest
	ErrTypeNotFound
	ErrTypeServer
	ErrTypeInvalidResponse
	ErrTypeCanceled
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeUnauthorized:
		return "unauthorized"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeConnection:
		return "connection"
	case ErrTypeBadRequest:
		return "bad_request"
	case ErrTypeNotFound:
		return "not_found"
	case ErrTypeServer:
		return "server"
	case ErrTypeInvalidResponse:
		return "invalid_response"
	case ErrTypeCanceled:
		return "canceled"
	}
	return "unknown"
}

// ClientError represents a failed backend call.
type ClientError struct {
	Type ErrorType
	// Status is the HTTP status code, 0 when no response arrived.
	Status  int
	Message string
	Cause   error
}

func (e *ClientError) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (%d)", msg, e.Status)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// Is matches any ClientError of the same Type, so errors.Is(err,
// ErrUnauthorized) holds for every 401 regardless of message.
func (e *ClientError) Is(target error) bool {
	t, ok := target.(*ClientError)
	return ok && t.Type == e.Type
}

// Sentinel errors for easy checking.
var (
	ErrUnauthorized = &ClientError{Type: ErrTypeUnauthorized, Message: "not logged in"}
	ErrTimeout      = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
	ErrUnreachable  = &ClientError{Type: ErrTypeConnection, Message: "backend unreachable"}
	ErrNotFound     = &ClientError{Type: ErrTypeNotFound, Message: "not found"}
	ErrCanceled     = &ClientError{Type: ErrTypeCanceled, Message: "request canceled"}
	ErrServer       = &ClientError{Type: ErrTypeServer, Message: "server error"}
)

// typeForStatus maps an HTTP status onto an ErrorType.
func typeForStatus(status int) ErrorType {
	switch {
	case status == http.StatusUnauthorized:
		return ErrTypeUnauthorized
	case status == http.StatusNotFound:
		return ErrTypeNotFound
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return ErrTypeTimeout
	case status >= 400 && status < 500:
		return ErrTypeBadRequest
	case status >= 500:
		return ErrTypeServer
	}
	return ErrTypeUnknown
}

// UserMessage returns text suitable for a toast.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ce *ClientError
	if !errors.As(err, &ce) {
		return err.Error()
	}
	switch ce.Type {
	case ErrTypeUnauthorized:
		return "Your session has expired. Please log in again."
	case ErrTypeTimeout:
		return "The server took too long to respond."
	case ErrTypeConnection:
		return "Cannot reach the DevTinder server."
	}
	if ce.Message != "" {
		return ce.Message
	}
	return "Something went wrong."
}
