package handlers

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/quantmind-br/siteassets-go/internal/domain"
)

// GigsFile is the artifact written by GigsHandler
const GigsFile = "gigs.json"

// Gig is one calendar event merged with its metadata file
type Gig struct {
	Event
	Venue       string `json:"venue"`
	TicketURL   string `json:"ticketUrl,omitempty"`
	Featured    bool   `json:"featured"`
	DisplayDate string `json:"displayDate,omitempty"`
	DisplayTime string `json:"displayTime,omitempty"`
}

// GigsHandler turns a combo directory of .ics + .json pairs into a sorted
// gig list
type GigsHandler struct {
	deps Deps
}

// NewGigsHandler creates a gigs handler
func NewGigsHandler(deps Deps) *GigsHandler {
	return &GigsHandler{deps: deps}
}

// Handle builds the gig list and writes gigs.json
func (h *GigsHandler) Handle(ctx context.Context, content any, path string) error {
	var group domain.ComboGroup
	switch v := content.(type) {
	case nil:
		h.deps.logger().Debug().Str("path", path).Msg("No gigs loaded")
		return nil
	case domain.ComboGroup:
		group = v
	case map[string]map[string]any:
		group = v
	default:
		return unsupported("gigs", content)
	}

	gigs, skipped := BuildGigs(group)
	for _, name := range skipped {
		h.deps.logger().Debug().Str("path", path).Str("gig", name).Msg("Skipping incomplete gig")
	}
	return h.deps.Writer.WriteJSON(ctx, GigsFile, gigs)
}

// BuildGigs pairs each basename's .ics text with its .json metadata and
// returns the gigs ordered by date and time. Basenames missing either half,
// or whose calendar does not decode, are returned in skipped.
func BuildGigs(group domain.ComboGroup) (gigs []Gig, skipped []string) {
	names := make([]string, 0, len(group))
	for name := range group {
		names = append(names, name)
	}
	sort.Strings(names)

	gigs = make([]Gig, 0, len(names))
	for _, name := range names {
		files := group[name]

		ics, _ := files[".ics"].(string)
		meta, _ := files[".json"].(map[string]any)
		if ics == "" || meta == nil {
			skipped = append(skipped, name)
			continue
		}

		ev, err := ParseICalendar(ics)
		if err != nil {
			skipped = append(skipped, name)
			continue
		}

		gig := Gig{Event: ev}
		gig.Venue, _ = meta["venue"].(string)
		gig.TicketURL, _ = meta["ticketUrl"].(string)
		gig.Featured, _ = meta["featured"].(bool)
		gig.DisplayDate = FormatDate(gig.Date)
		gig.DisplayTime = FormatTime(gig.Time)

		gigs = append(gigs, gig)
	}

	sort.SliceStable(gigs, func(i, j int) bool {
		ti, okI := gigs[i].start()
		tj, okJ := gigs[j].start()
		switch {
		case okI && okJ:
			return ti.Before(tj)
		case okI != okJ:
			return okI
		default:
			return false
		}
	})

	return gigs, skipped
}

// start returns the gig's start; all-day gigs start at midnight
func (g Gig) start() (time.Time, bool) {
	clock := g.Time
	if clock == "" {
		clock = "00:00"
	}
	t, err := time.Parse("2006-01-02T15:04", g.Date+"T"+clock)
	return t, err == nil
}

// FormatDate renders 2026-03-01 as "Sunday, March 1, 2026"
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return ""
	}
	return t.Format("Monday, January 2, 2006")
}

// FormatTime renders a 24-hour HH:MM as 12-hour time with AM/PM
func FormatTime(clock string) string {
	hours, minutes, ok := strings.Cut(clock, ":")
	if !ok {
		return ""
	}
	hour, err := strconv.Atoi(hours)
	if err != nil || hour < 0 || hour > 23 {
		return ""
	}

	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	display := hour
	switch {
	case hour > 12:
		display = hour - 12
	case hour == 0:
		display = 12
	}
	return fmt.Sprintf("%d:%s %s", display, minutes, ampm)
}
