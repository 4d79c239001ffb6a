package handlers

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TZID parameters resolve without a system zoneinfo

	"github.com/emersion/go-ical"
)

// Event holds the iCalendar fields used for gig listings
type Event struct {
	Date        string `json:"date"`
	Time        string `json:"time"`
	Summary     string `json:"summary,omitempty"`
	Location    string `json:"location,omitempty"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// ParseICalendar decodes a VCALENDAR document and extracts DTSTART,
// SUMMARY, LOCATION, DESCRIPTION and URL of its first VEVENT.
// Time is left empty for all-day (VALUE=DATE) events.
func ParseICalendar(content string) (Event, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\n", "\r\n")
	if !strings.HasSuffix(content, "\r\n") {
		content += "\r\n"
	}

	cal, err := ical.NewDecoder(strings.NewReader(content)).Decode()
	if err != nil {
		return Event{}, fmt.Errorf("failed to decode calendar: %w", err)
	}

	events := cal.Events()
	if len(events) == 0 {
		return Event{}, fmt.Errorf("calendar has no %s", ical.CompEvent)
	}
	vevent := events[0]

	var ev Event
	if prop := vevent.Props.Get(ical.PropDateTimeStart); prop != nil {
		start, err := vevent.DateTimeStart(time.UTC)
		if err != nil {
			return Event{}, fmt.Errorf("invalid %s: %w", ical.PropDateTimeStart, err)
		}
		ev.Date = start.Format(time.DateOnly)
		if prop.ValueType() != ical.ValueDate {
			ev.Time = start.Format("15:04")
		}
	}

	ev.Summary = text(vevent.Props, ical.PropSummary)
	ev.Location = text(vevent.Props, ical.PropLocation)
	ev.Description = text(vevent.Props, ical.PropDescription)
	if prop := vevent.Props.Get(ical.PropURL); prop != nil {
		ev.URL = prop.Value
	}

	return ev, nil
}

func text(props ical.Props, name string) string {
	v, err := props.Text(name)
	if err != nil {
		return ""
	}
	return v
}
