package api

import (
	"net/url"
	"testing"
)

func TestParseBaseURL(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{"https://mailtrap.io", "https://mailtrap.io", false},
		{"https://mailtrap.io/", "https://mailtrap.io", false},
		{" https://send.api.mailtrap.io/api/ ", "https://send.api.mailtrap.io/api", false},
		{"http://localhost:8080?x=1#frag", "http://localhost:8080", false},
		{"ftp://mailtrap.io", "", true},
		{"mailtrap.io", "", true},
		{"https://", "", true},
		{"://bad", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			u, err := ParseBaseURL(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBaseURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && u.String() != tt.want {
				t.Errorf("ParseBaseURL() = %s, want %s", u, tt.want)
			}
		})
	}
}

func TestAppendSegments(t *testing.T) {
	base, _ := ParseBaseURL("https://mailtrap.io/api")

	got := AppendSegments(base, "accounts", "42", "contacts", "john+tag@example.com")
	if want := "https://mailtrap.io/api/accounts/42/contacts/john+tag@example.com"; got.String() != want {
		t.Errorf("AppendSegments() = %s, want %s", got, want)
	}

	got = AppendSegments(base, "files", "a/b c")
	if want := "https://mailtrap.io/api/files/a%2Fb%20c"; got.String() != want {
		t.Errorf("AppendSegments() = %s, want %s", got, want)
	}

	if base.String() != "https://mailtrap.io/api" {
		t.Errorf("base modified: %s", base)
	}
}

func TestAppendQuery(t *testing.T) {
	base, _ := ParseBaseURL("https://mailtrap.io/api")

	got := AppendQuery(base, url.Values{"search": {"hello world"}, "page": {"2"}, "empty": {""}})
	if want := "https://mailtrap.io/api?page=2&search=hello+world"; got.String() != want {
		t.Errorf("AppendQuery() = %s, want %s", got, want)
	}

	if got := AppendQuery(base, nil); got.String() != base.String() {
		t.Errorf("AppendQuery(nil) = %s, want %s", got, base)
	}
}

func TestMarshalJSON_DoesNotEscapeHTML(t *testing.T) {
	data, err := marshalJSON(map[string]string{"html": "<b>a & b</b>"})
	if err != nil {
		t.Fatalf("marshalJSON() error = %v", err)
	}
	if string(data) != `{"html":"<b>a & b</b>"}` {
		t.Errorf("marshalJSON() = %s", data)
	}
}

func TestUnmarshalJSON_EmptyBody(t *testing.T) {
	v := map[string]int{"keep": 1}
	if err := unmarshalJSON([]byte("  \n"), &v); err != nil {
		t.Fatalf("unmarshalJSON() error = %v", err)
	}
	if v["keep"] != 1 {
		t.Errorf("value modified: %v", v)
	}
}
