package broadcast

import "strings"

// Frame encodes msg as a single text/event-stream event: one "data:" line per
// line of msg, terminated by a blank line. CRLF and CR are treated as line breaks.
func Frame(msg string) string {
	if !strings.ContainsAny(msg, "\r\n") {
		return "data: " + msg + "\n\n"
	}

	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")

	var b strings.Builder
	b.Grow(len(msg) + 16)
	for _, line := range strings.Split(msg, "\n") {
		b.WriteString("data: ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	return b.String()
}
