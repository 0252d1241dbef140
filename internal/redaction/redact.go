package redaction

import (
	"regexp"
)

// Rule replaces every match of Pattern with Replacement
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Rules run in order; card numbers go before phones so long digit runs are
// not split into phone-shaped pieces.
var defaultRules = []Rule{
	{
		Name:        "emails",
		Pattern:     regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		Replacement: "[EMAIL_REDACTED]",
	},
	{
		Name:        "ssns",
		Pattern:     regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		Replacement: "[SSN_REDACTED]",
	},
	{
		Name:        "credit_cards",
		Pattern:     regexp.MustCompile(`\b(?:\d[ -]?){12,18}\d\b`),
		Replacement: "[CREDIT_CARD_REDACTED]",
	},
	{
		Name:        "phones",
		Pattern:     regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?(?:\(\d{3}\)|\b\d{3})[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		Replacement: "[PHONE_REDACTED]",
	},
	{
		Name:        "profiles",
		Pattern:     regexp.MustCompile(`(?i)\b(?:https?://)?(?:www\.)?(?:linkedin\.com/in|github\.com|twitter\.com|x\.com)/[A-Za-z0-9_.-]+/?`),
		Replacement: "[PROFILE_REDACTED]",
	},
}

// PIIRedactor strips contact details from resumes before they are stored
// or sent to a model. Names are kept so interviewers can address the
// candidate.
type PIIRedactor struct {
	rules []Rule
}

// NewPIIRedactor creates a redactor with the default rules plus extra
func NewPIIRedactor(extra ...Rule) *PIIRedactor {
	rules := make([]Rule, 0, len(defaultRules)+len(extra))
	rules = append(rules, defaultRules...)
	rules = append(rules, extra...)
	return &PIIRedactor{rules: rules}
}

// RedactContent removes PII from the content
func (r *PIIRedactor) RedactContent(content []byte) []byte {
	result := content
	for _, rule := range r.rules {
		result = rule.Pattern.ReplaceAll(result, []byte(rule.Replacement))
	}
	return result
}

// RedactString removes PII from a string
func (r *PIIRedactor) RedactString(content string) string {
	return string(r.RedactContent([]byte(content)))
}

// Only returns a redactor limited to the named rules
func (r *PIIRedactor) Only(names ...string) *PIIRedactor {
	var rules []Rule
	for _, rule := range r.rules {
		for _, name := range names {
			if rule.Name == name {
				rules = append(rules, rule)
			}
		}
	}
	return &PIIRedactor{rules: rules}
}

// CountPIIItems counts matches per rule, applying rules in order so a
// value is counted once
func (r *PIIRedactor) CountPIIItems(content []byte) map[string]int {
	counts := make(map[string]int, len(r.rules))
	result := content
	for _, rule := range r.rules {
		counts[rule.Name] += len(rule.Pattern.FindAllIndex(result, -1))
		result = rule.Pattern.ReplaceAll(result, []byte(rule.Replacement))
	}
	return counts
}

// DefaultRedactor is the default PII redactor instance
var DefaultRedactor = NewPIIRedactor()

// Redact is a convenience function that uses the default redactor
func Redact(content []byte) []byte {
	return DefaultRedactor.RedactContent(content)
}

// RedactString is a convenience function that uses the default redactor
func RedactString(content string) string {
	return DefaultRedactor.RedactString(content)
}
