package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
	internal_errors "github.com/itchan-dev/anonboard/shared/errors"
	"github.com/itchan-dev/anonboard/shared/logger"
)

const (
	msgInvalidBody    = "Body is invalid"
	msgMissingFields  = "Required fields missing"
	msgInternalError  = "Internal server error"
	maxFormBodyLength = 1 << 20
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FormDecoder is implemented by request DTOs that can be filled from url-encoded form values.
type FormDecoder interface {
	FromForm(form url.Values)
}

// WriteErrorAndStatusCode writes typed errors with their status and message.
// Anything else is logged and answered with a generic 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) && e.StatusCode != http.StatusInternalServerError {
		http.Error(w, e.Message, e.StatusCode)
		return
	}
	logger.Log.Error("internal error", "error", err)
	http.Error(w, msgInternalError, http.StatusInternalServerError)
}

func GetIP(r *http.Request) (string, error) {
	//Get IP from the X-REAL-IP header
	ip := r.Header.Get("X-REAL-IP")
	netIP := net.ParseIP(ip)
	if netIP != nil {
		return ip, nil
	}

	//Get IP from X-FORWARDED-FOR header
	ips := r.Header.Get("X-FORWARDED-FOR")
	for _, ip := range strings.Split(ips, ",") {
		ip = strings.TrimSpace(ip)
		if net.ParseIP(ip) != nil {
			return ip, nil
		}
	}

	//Get IP from RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}
	if net.ParseIP(ip) != nil {
		return ip, nil
	}
	return "", fmt.Errorf("no valid ip found")
}

// DecodeValidate fills body from a JSON or url-encoded request and checks its validate tags.
// Form bodies are read directly because net/http parses them only for POST, PUT and PATCH.
func DecodeValidate(r *http.Request, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	if err := validate.Struct(body); err != nil {
		logger.Log.Debug("request validation failed", "error", err)
		return internal_errors.Validation(msgMissingFields)
	}
	return nil
}

func Decode(r *http.Request, body any) error {
	if form, ok := body.(FormDecoder); ok && isForm(r) {
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxFormBodyLength))
		if err != nil {
			return internal_errors.Validation(msgInvalidBody)
		}
		values, err := url.ParseQuery(string(raw))
		if err != nil {
			logger.Log.Debug("failed to parse form body", "error", err)
			return internal_errors.Validation(msgInvalidBody)
		}
		form.FromForm(values)
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(body); err != nil {
		logger.Log.Debug("failed to decode json body", "error", err)
		return internal_errors.Validation(msgInvalidBody)
	}
	return nil
}

func isForm(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/x-www-form-urlencoded"
}
