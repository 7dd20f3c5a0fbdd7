package httpresponse

import (
	"net/http"
	"strconv"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeText = "text/plain"
)

const INTERNALERRORTEXT = "turn processing failed"

// WriteJSON writes an already encoded JSON body.
func WriteJSON(w http.ResponseWriter, status int, body []byte) error {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, err := w.Write(body)
	return err
}

// WriteText writes a plain-text body. It is the error path of the turn
// endpoint, so unlike http.Error it sets exactly text/plain and no newline.
func WriteText(w http.ResponseWriter, status int, msg string) error {
	w.Header().Set("Content-Type", ContentTypeText)
	w.Header().Set("Content-Length", strconv.Itoa(len(msg)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, err := w.Write([]byte(msg))
	return err
}

func WriteInternalErrorResponse(w http.ResponseWriter) error {
	return WriteText(w, http.StatusInternalServerError, INTERNALERRORTEXT)
}
