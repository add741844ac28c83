package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/mailtrap/client-go/internal/apierrors"
)

const (
	maxErrorBodySize   = 1 << 20
	maxRawErrorMessage = 512
)

// handleResponse interprets a completed HTTP response according to the
// command's result kind. Non-2xx responses become *apierrors.APIError.
func handleResponse(cmd Command, resp *http.Response, out any) (*Response, error) {
	r := &Response{StatusCode: resp.StatusCode, Header: resp.Header}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return r, parseErrorResponse(cmd, resp)
	}

	switch cmd.Result {
	case ResultText:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return r, fmt.Errorf("failed to read response: %w", err)
		}
		r.Text = string(body)
	case ResultStatus:
		_, _ = io.Copy(io.Discard, resp.Body)
	default:
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return r, nil
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return r, fmt.Errorf("failed to read response: %w", err)
		}
		if err := unmarshalJSON(body, out); err != nil {
			return r, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return r, nil
}

func parseErrorResponse(cmd Command, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))

	apiErr := &apierrors.APIError{
		Method:     cmd.Method,
		URL:        cmd.URL.String(),
		StatusCode: resp.StatusCode,
		Reason:     reasonPhrase(resp),
		RequestID:  resp.Header.Get(headerRequestID),
	}
	apiErr.Message, apiErr.Details = parseProblem(body)
	return apiErr
}

// reasonPhrase extracts "Not Found" from a "404 Not Found" status line.
func reasonPhrase(resp *http.Response) string {
	prefix := strconv.Itoa(resp.StatusCode) + " "
	if reason := strings.TrimPrefix(resp.Status, prefix); reason != resp.Status && reason != "" {
		return reason
	}
	return http.StatusText(resp.StatusCode)
}

// parseProblem extracts human readable messages from the error payloads the
// Mailtrap APIs return:
//
//	{"error": "Incorrect API token"}
//	{"errors": "Unauthorized"}
//	{"errors": ["'from' is required", "'subject' is required"]}
//	{"errors": {"name": ["is too short"]}}
//	{"success": false, "message": "..."}
//
// Anything that is not JSON falls back to the trimmed body text.
func parseProblem(body []byte) (string, []string) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", nil
	}

	var problem struct {
		Error   any    `json:"error"`
		Errors  any    `json:"errors"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &problem); err != nil {
		if trimmed[0] == '<' {
			// HTML error page from a proxy; the reason phrase is more useful.
			return "", nil
		}
		return truncateUTF8(string(trimmed), maxRawErrorMessage), nil
	}

	var details []string
	details = appendProblem(details, "", problem.Error)
	details = appendProblem(details, "", problem.Errors)
	if len(details) == 0 && problem.Message != "" {
		details = append(details, problem.Message)
	}
	if len(details) == 0 {
		return "", nil
	}
	return strings.Join(details, "; "), details
}

func appendProblem(dst []string, field string, v any) []string {
	switch val := v.(type) {
	case nil:
		return dst
	case string:
		if val == "" {
			return dst
		}
		if field != "" && field != "base" {
			return append(dst, field+": "+val)
		}
		return append(dst, val)
	case []any:
		for _, item := range val {
			dst = appendProblem(dst, field, item)
		}
		return dst
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			name := k
			if field != "" {
				name = field + "." + k
			}
			dst = appendProblem(dst, name, val[k])
		}
		return dst
	default:
		s := fmt.Sprint(val)
		if field != "" {
			s = field + ": " + s
		}
		return append(dst, s)
	}
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune and marks
// the cut with "...".
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
