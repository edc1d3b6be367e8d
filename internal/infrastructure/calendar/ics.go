package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rightartist/marketplace/internal/core/ports"
)

const icsTimeLayout = "20060102T150405Z"

// buildICS renders an RFC 5545 VCALENDAR blob for the event. Lines end in
// CRLF and text values are escaped per the RFC's TEXT rules.
func buildICS(uid string, event ports.CalendarEvent, now time.Time) string {
	var b strings.Builder

	line := func(format string, args ...any) {
		b.WriteString(fmt.Sprintf(format, args...))
		b.WriteString("\r\n")
	}

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:-//marketplace//booking//EN")
	line("BEGIN:VEVENT")
	line("UID:%s", uid)
	line("DTSTAMP:%s", now.UTC().Format(icsTimeLayout))
	line("DTSTART:%s", event.Start.UTC().Format(icsTimeLayout))
	line("DTEND:%s", event.End.UTC().Format(icsTimeLayout))
	line("SUMMARY:%s", escapeText(event.Title))
	if event.Description != "" {
		line("DESCRIPTION:%s", escapeText(event.Description))
	}
	if event.Organizer.Email != "" {
		line("ORGANIZER;CN=%s:mailto:%s", escapeText(event.Organizer.Name), event.Organizer.Email)
	}
	for _, a := range event.Attendees {
		if a.Email == "" {
			continue
		}
		line("ATTENDEE;CN=%s:mailto:%s", escapeText(a.Name), a.Email)
	}
	line("END:VEVENT")
	line("END:VCALENDAR")

	return b.String()
}

// escapeText applies RFC 5545 TEXT escaping.
func escapeText(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		";", `\;`,
		",", `\,`,
		"\n", `\n`,
	)
	return r.Replace(s)
}
