package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	errs "turnserver/internal/errors"
)

// ReadRequestBody reads exactly the declared Content-Length bytes, refusing
// bodies without a declared length or larger than limit.
func ReadRequestBody(w http.ResponseWriter, r *http.Request, limit int64) ([]byte, error) {
	defer r.Body.Close()

	if r.ContentLength < 0 {
		return nil, errs.ErrMissingContentLength
	}
	if limit > 0 && r.ContentLength > limit {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", errs.ErrBodyTooLarge, r.ContentLength, limit)
	}

	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", errs.ErrBodyTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return data, nil
}

// DecodeJSONObject decodes body, which must hold exactly one UTF-8 JSON
// object, into dst. Numbers are kept as json.Number so large integers pass
// through verbatim.
func DecodeJSONObject(body []byte, dst any) error {
	if !utf8.Valid(body) {
		return fmt.Errorf("%w: body is not valid UTF-8", errs.ErrMalformedTurn)
	}
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty body", errs.ErrMalformedTurn)
	}
	if trimmed[0] != '{' {
		return fmt.Errorf("%w: top-level value must be a JSON object", errs.ErrMalformedTurn)
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()
	if err := decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errs.ErrMalformedTurn, err)
	}
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON object", errs.ErrMalformedTurn)
	}
	return nil
}
