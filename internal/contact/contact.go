package contact

import (
	"regexp"
	"strings"
)

var (
	emailRe       = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigitRe    = regexp.MustCompile(`\D`)
	solicitanteRe = regexp.MustCompile(`Solicitante:\s*(.+)`)
	telefoneRe    = regexp.MustCompile(`Telefone:\s*(.+)`)
)

// ValidEmail reports whether the address has a basic local@domain.tld shape.
func ValidEmail(email string) bool {
	return emailRe.MatchString(email)
}

// Digits strips everything but digits from a phone string.
func Digits(phone string) string {
	return nonDigitRe.ReplaceAllString(phone, "")
}

// FormatPhone applies the Brazilian display mask:
//
//	"9533334444"  -> "(95) 3333-4444"
//	"95988887777" -> "(95) 98888-7777"
//
// Short inputs are masked as far as the digits go; output is capped at the
// mask's full width.
func FormatPhone(raw string) string {
	d := Digits(raw)
	if d == "" {
		return ""
	}

	var b strings.Builder
	b.WriteByte('(')
	if len(d) <= 2 {
		b.WriteString(d)
		return b.String()
	}
	b.WriteString(d[:2])
	b.WriteString(") ")

	rest := d[2:]
	// Nine-digit mobile numbers break after the fifth digit, landlines after
	// the fourth.
	split := 4
	if len(d) > 10 {
		split = 5
	}
	if len(rest) <= split {
		b.WriteString(rest)
	} else {
		b.WriteString(rest[:split])
		b.WriteByte('-')
		b.WriteString(rest[split:])
	}

	masked := b.String()
	if len(masked) > 15 {
		masked = masked[:15]
	}
	return masked
}

// JoinContact builds the "email | phone" tuple stored on an occupied slot.
func JoinContact(email, phone string) string {
	return email + " | " + phone
}

// SplitContact breaks a stored contact tuple back into email and phone. A
// tuple without the separator is treated as a bare email.
func SplitContact(contact string) (email, phone string) {
	if !strings.Contains(contact, "|") {
		return strings.TrimSpace(contact), ""
	}
	parts := strings.SplitN(contact, "|", 2)
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
}

// EventDetails is the client information recovered from a calendar event's
// free-text description. The "Solicitante:" and "Telefone:" lines are a
// convention of whatever created the event, not a schema guarantee.
type EventDetails struct {
	Name  string
	Phone string
}

// ExtractDetails parses the conventional description lines. When no
// Solicitante line exists the summary stands in for the name, keeping the
// segment after a "<label>: " prefix when one is present.
func ExtractDetails(description, summary string) EventDetails {
	var d EventDetails

	if m := solicitanteRe.FindStringSubmatch(description); m != nil {
		d.Name = strings.TrimSpace(m[1])
	} else {
		d.Name = strings.TrimSpace(summary)
	}
	if parts := strings.Split(d.Name, ": "); len(parts) > 1 {
		d.Name = parts[1]
	}

	if m := telefoneRe.FindStringSubmatch(description); m != nil {
		d.Phone = strings.TrimSpace(m[1])
	}
	return d
}
