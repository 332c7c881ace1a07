// Package probationers resolves callers to probationer records. The phone
// number is the lookup key; only active records are returned.
package probationers

import (
	"strings"
	"time"
)

// Probationer is a supervised individual known to the office.
type Probationer struct {
	ID         string    `json:"id"`
	FullName   string    `json:"full_name"`
	CaseNumber string    `json:"case_number"`
	RiskLevel  string    `json:"risk_level"`
	Phone      string    `json:"phone"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// FirstName returns the leading name token for greetings.
func (p *Probationer) FirstName() string {
	fields := strings.Fields(p.FullName)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// NormalizePhone reduces a phone number to its digits so that formatting
// variants ("(901) 555-0142", "901-555-0142", "+19015550142") resolve to the
// same record. A leading US country code is dropped.
func NormalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 11 && strings.HasPrefix(digits, "1") {
		digits = digits[1:]
	}
	return digits
}
