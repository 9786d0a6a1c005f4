package market

import (
	"encoding/json"
	"fmt"

	"github.com/samvad-hq/market-contract-tests/pkg/httpclient"
)

// Response wraps one executed call. Body is set only for 2xx responses and
// ErrorBody only for non-2xx responses that carried a payload.
type Response[T any] struct {
	code      int
	status    string
	body      *T
	errorBody []byte
	raw       []byte
}

func (r *Response[T]) Code() int          { return r.code }
func (r *Response[T]) Status() string     { return r.status }
func (r *Response[T]) IsSuccessful() bool { return r.code >= 200 && r.code < 300 }
func (r *Response[T]) Body() *T           { return r.body }
func (r *Response[T]) ErrorBody() []byte  { return r.errorBody }
func (r *Response[T]) Raw() []byte        { return r.raw }

// RawBody is the payload type of endpoints without a typed success body.
type RawBody []byte

// decodeResponse converts a transport response into a typed Response.
func decodeResponse[T any](resp httpclient.Response) (*Response[T], error) {
	out := &Response[T]{
		code:   resp.StatusCode(),
		status: resp.Status(),
		raw:    resp.Body(),
	}

	if !out.IsSuccessful() {
		if len(out.raw) > 0 {
			out.errorBody = out.raw
		}
		return out, nil
	}

	var body T
	switch dst := any(&body).(type) {
	case *RawBody:
		*dst = RawBody(out.raw)
	default:
		if len(out.raw) > 0 {
			if err := json.Unmarshal(out.raw, &body); err != nil {
				return out, fmt.Errorf("decode %d response body: %w", out.code, err)
			}
		}
	}
	out.body = &body
	return out, nil
}
