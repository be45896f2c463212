package response

import (
	"encoding/json"
	"errors"
	"net/http"

	domainerr "github.com/codemastery/codemastery-api/domain/error"
)

const (
	MsgCouldNotValidate = "Could not validate credentials"
	MsgUserNotFound     = "User not found"
)

// Envelope wraps status messages and errors. Detail repeats the message for
// clients that read a top-level {"detail": ...} field.
type Envelope struct {
	Status  bool        `json:"status"`
	Message string      `json:"message"`
	Detail  string      `json:"detail,omitempty"`
	Data    interface{} `json:"data"`
}

func WriteJSON(w http.ResponseWriter, statusCode int, status bool, message string, data interface{}) {
	envelope := Envelope{
		Status:  status,
		Message: message,
		Data:    data,
	}
	if !status {
		envelope.Detail = message
	}
	JSON(w, statusCode, envelope)
}

// JSON writes v as the whole body. Token pairs and resources go out this way.
func JSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

func Success(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	WriteJSON(w, statusCode, true, message, data)
}

func Error(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, false, message, nil)
}

func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized always advertises the Bearer scheme.
func Unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	Error(w, http.StatusUnauthorized, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

func TooManyRequests(w http.ResponseWriter, message string) {
	Error(w, http.StatusTooManyRequests, message)
}

func InternalServerError(w http.ResponseWriter, message string) {
	Error(w, http.StatusInternalServerError, message)
}

// FromError maps a domain error to a response. Verification failures collapse
// to one message so callers cannot tell which check failed.
func FromError(w http.ResponseWriter, err error) {
	switch {
	case domainerr.IsVerificationError(err):
		Unauthorized(w, MsgCouldNotValidate)
		return
	case errors.Is(err, domainerr.ErrPrincipalNotFound):
		Unauthorized(w, MsgUserNotFound)
		return
	case errors.Is(err, domainerr.ErrCredentialsInvalid):
		Unauthorized(w, domainerr.ErrCredentialsInvalid.Message)
		return
	}

	var appErr *domainerr.AppError
	if !errors.As(err, &appErr) {
		InternalServerError(w, "Internal server error")
		return
	}

	statusCode := domainerr.GetHTTPStatusCode(appErr)
	switch statusCode {
	case http.StatusUnauthorized:
		Unauthorized(w, MsgCouldNotValidate)
	case http.StatusInternalServerError, http.StatusServiceUnavailable:
		Error(w, statusCode, appErr.Message)
	default:
		message := appErr.Message
		if appErr.Details != "" {
			message = appErr.Message + ": " + appErr.Details
		}
		Error(w, statusCode, message)
	}
}
