package redaction

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		gone    []string
		present []string
	}{
		{
			name:    "emails",
			in:      "Contact me at john.doe@example.com or support@company.org",
			gone:    []string{"john.doe@example.com", "support@company.org"},
			present: []string{"[EMAIL_REDACTED]"},
		},
		{
			name:    "phones",
			in:      "Call me at 555-123-4567 or +1 (800) 555-0123",
			gone:    []string{"555-123-4567", "800"},
			present: []string{"[PHONE_REDACTED]"},
		},
		{
			name:    "ssns",
			in:      "SSN: 123-45-6789",
			gone:    []string{"123-45-6789"},
			present: []string{"[SSN_REDACTED]"},
		},
		{
			name:    "credit cards",
			in:      "Card number: 4111 1111 1111 1111",
			gone:    []string{"4111 1111 1111 1111"},
			present: []string{"[CREDIT_CARD_REDACTED]"},
		},
		{
			name:    "profile links",
			in:      "See https://www.linkedin.com/in/jane-doe and github.com/janedoe",
			gone:    []string{"jane-doe", "janedoe"},
			present: []string{"[PROFILE_REDACTED]"},
		},
		{
			name:    "date ranges survive",
			in:      "Senior Developer at TechCorp (2020-2024), 1000 rps",
			present: []string{"2020-2024", "1000 rps"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RedactString(tt.in)
			for _, s := range tt.gone {
				assert.NotContains(t, out, s)
			}
			for _, s := range tt.present {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestRedact_NoPII(t *testing.T) {
	content := []byte("This is a normal text without any personal information")
	assert.Equal(t, string(content), string(Redact(content)))
}

func TestRedact_Resume(t *testing.T) {
	content := []byte(`
Name: John Doe
Email: john@example.com
Phone: 555-123-4567
Experience: 5 years as a developer
`)
	redacted := string(Redact(content))

	assert.NotContains(t, redacted, "john@example.com")
	assert.NotContains(t, redacted, "555-123-4567")
	assert.Contains(t, redacted, "John Doe")
	assert.Contains(t, redacted, "5 years as a developer")
}

func TestPIIRedactor_CountPIIItems(t *testing.T) {
	counts := NewPIIRedactor().CountPIIItems([]byte("Emails: a@test.com, b@test.com. Phone: 555-123-4567"))

	assert.Equal(t, 2, counts["emails"])
	assert.Equal(t, 1, counts["phones"])
	assert.Equal(t, 0, counts["ssns"])
	assert.Equal(t, 0, counts["credit_cards"])
}

func TestPIIRedactor_Only(t *testing.T) {
	content := []byte("Email: test@example.com, Phone: 555-123-4567")

	emails := string(DefaultRedactor.Only("emails").RedactContent(content))
	assert.NotContains(t, emails, "test@example.com")
	assert.Contains(t, emails, "555-123-4567")

	phones := string(DefaultRedactor.Only("phones").RedactContent(content))
	assert.Contains(t, phones, "test@example.com")
	assert.NotContains(t, phones, "555-123-4567")
}

func TestNewPIIRedactor_ExtraRules(t *testing.T) {
	r := NewPIIRedactor(Rule{
		Name:        "employee_ids",
		Pattern:     regexp.MustCompile(`EMP-\d+`),
		Replacement: "[ID_REDACTED]",
	})

	assert.Equal(t, "badge [ID_REDACTED]", r.RedactString("badge EMP-4411"))
}
