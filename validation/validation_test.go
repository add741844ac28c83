package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck_CollectsAllFailures(t *testing.T) {
	res := Check(
		Required("from", ""),
		Length("name", "a", 2, 100),
		Email("email", "john@example.com"),
		nil,
		When(false, Required("skipped", "")),
	)

	require.False(t, res.IsValid())
	assert.Equal(t, []string{"from", "name"}, res.Fields())
	assert.Equal(t, "from: is required; name: must be between 2 and 100 characters", res.Error())
}

func TestResult_ZeroValueIsValid(t *testing.T) {
	var res Result
	assert.True(t, res.IsValid())
	assert.Empty(t, res.Error())
	assert.Empty(t, res.Fields())
}

func TestResult_Merge(t *testing.T) {
	inner := Check(Required("from", ""), Custom("", false, "bad request"))

	res := Result{}.Add("requests", "must not be empty").Merge("requests[2]", inner)

	require.Len(t, res.Errors, 3)
	assert.Equal(t, "requests", res.Errors[0].Field)
	assert.Equal(t, "requests[2].from", res.Errors[1].Field)
	assert.Equal(t, "requests[2]", res.Errors[2].Field)
	assert.True(t, res.Has("requests[2].from"))

	unprefixed := Result{}.Merge("", inner)
	assert.Equal(t, []string{"from", ""}, unprefixed.Fields())

	assert.Equal(t, res, res.Merge("x", Result{}))
}

func TestEach(t *testing.T) {
	emails := []string{"ok@example.com", "broken", "also@example.com", ""}

	res := Each("to", emails, func(e string) Result {
		return Check(Email("email", e))
	})

	assert.Equal(t, []string{"to[1].email", "to[3].email"}, res.Fields())
}

func TestLength(t *testing.T) {
	tests := []struct {
		name  string
		value string
		min   int
		max   int
		valid bool
	}{
		{"within bounds", "Project", 2, 100, true},
		{"too short", "a", 2, 100, false},
		{"too long", strings.Repeat("a", 101), 2, 100, false},
		{"exact max", strings.Repeat("a", 100), 2, 100, true},
		{"blank", "   ", 1, 100, false},
		{"multibyte counted as runes", strings.Repeat("ж", 80), 1, 80, true},
		{"optional empty", "", 0, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Check(Length("name", tt.value, tt.min, tt.max))
			assert.Equal(t, tt.valid, res.IsValid(), res.Error())
		})
	}
}

func TestMaxLength(t *testing.T) {
	assert.True(t, Check(MaxLength("category", "", 255)).IsValid())
	assert.False(t, Check(MaxLength("category", strings.Repeat("c", 256), 255)).IsValid())
}

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"john@example.com", true},
		{"john.doe+tag@sub.example.co", true},
		{"", false},
		{"john", false},
		{"john@", false},
		{"@example.com", false},
		{"John <john@example.com>", false},
		{"john@@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.valid, Check(Email("email", tt.value)).IsValid())
		})
	}
}

func TestHostname(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"example.com", true},
		{"mail.example-domain.io", true},
		{"", false},
		{"localhost", false},
		{"-bad.example.com", false},
		{"bad-.example.com", false},
		{"exa mple.com", false},
		{"a..b", false},
		{strings.Repeat("a", 64) + ".com", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.valid, Check(Hostname("domain_name", tt.value)).IsValid())
		})
	}
}

func TestOneOf(t *testing.T) {
	assert.True(t, Check(OneOf("data_type", "text", "text", "integer")).IsValid())

	res := Check(OneOf("data_type", "blob", "text", "integer"))
	require.False(t, res.IsValid())
	assert.Equal(t, "data_type: must be one of text, integer", res.Error())
}

func TestItems(t *testing.T) {
	assert.False(t, Check(MinItems("to", 0, 1)).IsValid())
	assert.Equal(t, "contacts: must contain at least 2 items", Check(MinItems("contacts", 1, 2)).Error())
	assert.True(t, Check(MaxItems("to", 1000, 1000)).IsValid())
	assert.False(t, Check(MaxItems("to", 1001, 1000)).IsValid())
}

func TestUUID(t *testing.T) {
	assert.True(t, Check(UUID("template_uuid", "f47ac10b-58cc-4372-a567-0e02b2c3d479")).IsValid())
	assert.False(t, Check(UUID("template_uuid", "not-a-uuid")).IsValid())
	assert.Equal(t, "template_uuid: is required", Check(UUID("template_uuid", "")).Error())
}

func TestPositiveAndCustom(t *testing.T) {
	assert.True(t, Check(Positive("id", 1)).IsValid())
	assert.False(t, Check(Positive("id", 0)).IsValid())
	assert.False(t, Check(Positive("id", -4)).IsValid())

	res := Check(Custom("recipients", false, "at least one recipient is required"))
	assert.Equal(t, "recipients: at least one recipient is required", res.Error())
}

func TestEmpty(t *testing.T) {
	assert.True(t, Check(Empty("subject", "", "when a template is used")).IsValid())
	assert.Equal(t, "subject: must be empty when a template is used",
		Check(Empty("subject", "Hi", "when a template is used")).Error())
}
