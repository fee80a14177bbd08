package feed

import "strings"

// ParseLine splits one CSV line into trimmed fields. Commas inside a quoted
// section are kept, and a doubled quote inside quotes yields one literal quote.
// An unterminated quote is not an error: whatever was accumulated is flushed.
// An empty line yields a single empty field.
func ParseLine(line string) []string {
	var (
		fields  []string
		field   strings.Builder
		inQuote bool
	)

	// Quote and comma are single bytes in UTF-8, so a byte scan never splits a rune.
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuote && i+1 < len(line) && line[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuote = !inQuote
			}
		case c == ',' && !inQuote:
			fields = append(fields, strings.TrimSpace(field.String()))
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}

	return append(fields, strings.TrimSpace(field.String()))
}
