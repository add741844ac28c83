package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// ResultKind declares how a successful response is interpreted.
type ResultKind int

const (
	// ResultJSON decodes the response body as JSON into the caller's value.
	ResultJSON ResultKind = iota
	// ResultText returns the response body as plain text.
	ResultText
	// ResultStatus only reports the status code; the body is discarded.
	ResultStatus
)

func (k ResultKind) String() string {
	switch k {
	case ResultJSON:
		return "json"
	case ResultText:
		return "text"
	case ResultStatus:
		return "status"
	default:
		return fmt.Sprintf("ResultKind(%d)", int(k))
	}
}

// Command is a single dispatchable API call: a verb, an absolute URL, an
// optional body serialized as JSON, and the expected result shape.
type Command struct {
	Method string
	URL    *url.URL
	Body   any
	Result ResultKind
}

// NewCommand builds a command expecting a JSON result.
func NewCommand(method string, u *url.URL, body any) Command {
	return Command{Method: method, URL: u, Body: body, Result: ResultJSON}
}

// TextCommand builds a GET command expecting a plain-text result.
func TextCommand(u *url.URL) Command {
	return Command{Method: http.MethodGet, URL: u, Result: ResultText}
}

// StatusCommand builds a command whose result is only the status code.
func StatusCommand(method string, u *url.URL, body any) Command {
	return Command{Method: method, URL: u, Body: body, Result: ResultStatus}
}

func (c Command) validate() error {
	if c.Method == "" {
		return errors.New("command method is required")
	}
	if c.URL == nil {
		return errors.New("command URL is required")
	}
	if !c.URL.IsAbs() {
		return fmt.Errorf("command URL %q is not absolute", c.URL.String())
	}
	return nil
}

// Response is the successful outcome of a command.
type Response struct {
	StatusCode int
	Header     http.Header
	// Text holds the body for ResultText commands.
	Text string
}
