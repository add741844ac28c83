package api

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseBaseURL parses an absolute http(s) URL used as the root of a family of
// resources. A trailing slash is removed so segments can be appended safely.
func ParseBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("parse base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base URL %q must use http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base URL %q has no host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// AppendSegments returns a copy of base with the given path segments
// appended. Each segment is escaped independently, so a segment may safely
// contain characters such as '/' or '@'.
func AppendSegments(base *url.URL, segments ...string) *url.URL {
	u := *base
	path := strings.TrimRight(u.Path, "/")
	raw := strings.TrimRight(u.EscapedPath(), "/")
	for _, s := range segments {
		path += "/" + s
		raw += "/" + url.PathEscape(s)
	}
	u.Path = path
	u.RawPath = raw
	return &u
}

// AppendQuery returns a copy of base with values added to its query string.
// Existing parameters are kept; empty values are skipped.
func AppendQuery(base *url.URL, values url.Values) *url.URL {
	u := *base
	if len(values) == 0 {
		return &u
	}
	q := u.Query()
	for key, vs := range values {
		for _, v := range vs {
			if v == "" {
				continue
			}
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()
	return &u
}
