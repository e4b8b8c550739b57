package huumapi

import (
	"encoding/json"
	"errors"
	"strings"
)

// DecodeJSONP unwraps the legacy callback framing the Huum API still uses and
// returns the payload as raw JSON. Bodies arrive as `(<json>);`, `(<json>)`,
// or occasionally as plain JSON; anything else is a decode failure. An empty
// body is an invalid response, never an empty object.
func DecodeJSONP(body []byte, httpStatus int) (json.RawMessage, error) {
	text := strings.TrimSpace(string(body))
	switch {
	case strings.HasPrefix(text, "(") && strings.HasSuffix(text, ");"):
		text = text[1 : len(text)-2]
	case strings.HasPrefix(text, "(") && strings.HasSuffix(text, ")"):
		text = text[1 : len(text)-1]
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &DecodeError{
			HTTPStatus: httpStatus,
			Preview:    bodyPreview(body),
			Cause:      errors.New("empty response body"),
		}
	}
	raw := json.RawMessage(text)
	if !json.Valid(raw) {
		return nil, &DecodeError{
			HTTPStatus: httpStatus,
			Preview:    bodyPreview(body),
			Cause:      errors.New("payload is not valid JSON"),
		}
	}
	return raw, nil
}

// checkAPIError inspects a decoded payload for an explicit API-level failure:
// an object carrying success=false. The error message field is surfaced when
// present.
func checkAPIError(raw json.RawMessage) error {
	var envelope struct {
		Success *bool  `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		// Arrays and scalars have no error envelope.
		return nil
	}
	if envelope.Success != nil && !*envelope.Success {
		msg := envelope.Error
		if msg == "" {
			msg = "unknown API error"
		}
		return &APIError{Message: msg}
	}
	return nil
}
