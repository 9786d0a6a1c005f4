package market

import (
	"encoding/json"

	"github.com/samvad-hq/market-contract-tests/internal/domain"
)

// errorBodyCarrier is satisfied by every Response[T].
type errorBodyCarrier interface {
	IsSuccessful() bool
	ErrorBody() []byte
	Code() int
}

// DecodeError returns the server's ErrorMessage for an unsuccessful response
// that carried a body. It returns nil for successful responses and for bodies
// that do not decode.
func DecodeError(resp errorBodyCarrier) *domain.ErrorMessage {
	return DecodeErrorWith(resp, nil)
}

// DecodeErrorWith is DecodeError that logs undecodable bodies.
func DecodeErrorWith(resp errorBodyCarrier, log Logger) *domain.ErrorMessage {
	if resp == nil || resp.IsSuccessful() || len(resp.ErrorBody()) == 0 {
		return nil
	}

	var msg domain.ErrorMessage
	if err := json.Unmarshal(resp.ErrorBody(), &msg); err != nil {
		ensureLogger(log).WarnObj("error body not decodable", "error_body", map[string]any{
			"status": resp.Code(),
			"body":   snippet(resp.ErrorBody()),
			"error":  err.Error(),
		})
		return nil
	}
	return &msg
}

func snippet(body []byte) string {
	const maxLen = 512
	if len(body) > maxLen {
		return string(body[:maxLen]) + "..."
	}
	return string(body)
}
