package httpclient

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// LogLevel selects how much of each exchange is logged.
type LogLevel int

const (
	LogNone LogLevel = iota
	// LogBasic logs request and response lines.
	LogBasic
	// LogHeaders adds request and response headers.
	LogHeaders
	// LogBody adds request and response bodies.
	LogBody
)

const maxLoggedBodyBytes = 2048

// ParseLogLevel maps none/basic/headers/body to a LogLevel.
func ParseLogLevel(raw string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "none":
		return LogNone, nil
	case "", "basic":
		return LogBasic, nil
	case "headers":
		return LogHeaders, nil
	case "body":
		return LogBody, nil
	default:
		return LogNone, fmt.Errorf("unknown http log level %q", raw)
	}
}

func (l LogLevel) String() string {
	switch l {
	case LogNone:
		return "none"
	case LogBasic:
		return "basic"
	case LogHeaders:
		return "headers"
	case LogBody:
		return "body"
	default:
		return fmt.Sprintf("LogLevel(%d)", int(l))
	}
}

func attachLogging(c *resty.Client, level LogLevel, log Logger) {
	if level <= LogNone {
		return
	}

	c.SetPreRequestHook(func(_ *resty.Client, req *http.Request) error {
		fields := map[string]any{
			"method": req.Method,
			"url":    req.URL.String(),
		}
		if level >= LogHeaders {
			fields["headers"] = flattenHeaders(req.Header)
		}
		log.InfoObj(fmt.Sprintf("--> %s %s", req.Method, req.URL.String()), "http_request", fields)
		return nil
	})

	c.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		method, url := requestLine(resp.Request)
		fields := map[string]any{
			"method":     method,
			"url":        url,
			"status":     resp.StatusCode(),
			"elapsed_ms": resp.Time().Milliseconds(),
			"size_bytes": resp.Size(),
		}
		if level >= LogHeaders {
			fields["headers"] = flattenHeaders(resp.Header())
		}
		if level >= LogBody {
			if resp.Request != nil && resp.Request.Body != nil {
				fields["request_body"] = resp.Request.Body
			}
			fields["response_body"] = bodySnippet(resp.Body())
		}
		log.InfoObj(fmt.Sprintf("<-- %d %s (%dms, %d-byte body)", resp.StatusCode(), url, resp.Time().Milliseconds(), resp.Size()), "http_response", fields)
		return nil
	})

	c.OnError(func(req *resty.Request, err error) {
		method, url := requestLine(req)
		log.ErrorObj(fmt.Sprintf("<-- HTTP FAILED: %s %s", method, url), "http_error", map[string]any{
			"method": method,
			"url":    url,
			"error":  err.Error(),
		})
	})
}

func requestLine(req *resty.Request) (string, string) {
	if req == nil {
		return "", ""
	}
	if req.RawRequest != nil && req.RawRequest.URL != nil {
		return req.RawRequest.Method, req.RawRequest.URL.String()
	}
	return req.Method, req.URL
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func bodySnippet(body []byte) string {
	if len(body) > maxLoggedBodyBytes {
		return strings.TrimSpace(string(body[:maxLoggedBodyBytes])) + "..."
	}
	return strings.TrimSpace(string(body))
}
