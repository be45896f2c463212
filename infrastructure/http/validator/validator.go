package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	maxBodyBytes  = 1 << 20
	MinNameLength = 2

	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

var ErrEmptyBody = errors.New("request body is empty")

// DecodeJSON reads a single JSON object from the body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if decoder.More() {
		return errors.New("invalid JSON body: trailing data")
	}
	return nil
}

func ValidateRequired(value string) bool {
	return strings.TrimSpace(value) != ""
}

func ValidateName(name string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(name)) >= MinNameLength
}

// ValidateJWTShape is a cheap pre-check: three non-empty dot-separated segments.
func ValidateJWTShape(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// Pagination reads skip and limit query parameters; limit is clamped to MaxPageLimit.
func Pagination(r *http.Request) (skip, limit int, err error) {
	q := r.URL.Query()

	skip, err = intParam(q.Get("skip"), 0)
	if err != nil || skip < 0 {
		return 0, 0, fmt.Errorf("invalid skip parameter")
	}

	limit, err = intParam(q.Get("limit"), DefaultPageLimit)
	if err != nil || limit <= 0 {
		return 0, 0, fmt.Errorf("invalid limit parameter")
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return skip, limit, nil
}

func intParam(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
