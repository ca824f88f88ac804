package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"github.com/pocketbase/pocketbase/core"
)

// Toast kinds understood by static/forms.js.
const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastWarning = "warning"
	ToastInfo    = "info"
)

const genericErrorMessage = "Something went wrong. Please try again."

type toastPayload struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// SetToast raises a showToast event through HX-Trigger, merging with any
// trigger already set on the response. The same payload goes into a short
// lived flash_toast cookie so it survives a plain 302 redirect.
func SetToast(e *core.RequestEvent, toastType string, message string) {
	payload := toastPayload{Message: message, Type: toastType}

	trigger, err := mergeTrigger(e.Response.Header().Get("HX-Trigger"), "showToast", payload)
	if err != nil {
		log.Printf("toast: could not build HX-Trigger: %v", err)
		return
	}
	e.Response.Header().Set("HX-Trigger", trigger)

	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	http.SetCookie(e.Response, &http.Cookie{
		Name:     "flash_toast",
		Value:    url.QueryEscape(string(raw)),
		Path:     "/",
		MaxAge:   10,
		SameSite: http.SameSiteLaxMode,
	})
}

// mergeTrigger adds event to an existing HX-Trigger JSON object. A value that
// is not a JSON object is replaced.
func mergeTrigger(existing, event string, payload any) (string, error) {
	events := map[string]any{}
	if existing != "" {
		if err := json.Unmarshal([]byte(existing), &events); err != nil {
			log.Printf("toast: replacing non-JSON HX-Trigger %q", existing)
			events = map[string]any{}
		}
	}
	events[event] = payload

	data, err := json.Marshal(events)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ErrorToast raises an error toast and tells htmx not to swap the body, so
// the page keeps its current content.
func ErrorToast(e *core.RequestEvent, statusCode int, message string) error {
	SetToast(e, ToastError, message)
	e.Response.Header().Set("HX-Reswap", "none")
	return e.String(statusCode, message)
}

// serverError logs err under area and answers with the generic error toast.
func serverError(e *core.RequestEvent, area, what string, err error) error {
	log.Printf("%s: %s: %v", area, what, err)
	return ErrorToast(e, http.StatusInternalServerError, genericErrorMessage)
}
