package dateutil

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"ourdates/models"
)

const calendarBase = "https://calendar.google.com/calendar/render"

// Default event window when an itinerary has no timed activities.
const (
	defaultStart = "09:00"
	defaultEnd   = "21:00"
)

// BuildCalendarLink composes a Google Calendar web-intent URL for an
// itinerary. The parameter set and the local-time dates format
// (YYYYMMDDTHHmmss/YYYYMMDDTHHmmss) are a compatibility contract with
// the calendar service and must not be reshuffled.
func BuildCalendarLink(it models.Itinerary) string {
	day := time.UnixMilli(it.Date)
	dateStr := day.Format("20060102")

	start := defaultStart
	end := defaultEnd

	acts := make([]models.Activity, len(it.Activities))
	copy(acts, it.Activities)
	sort.SliceStable(acts, func(i, j int) bool { return acts[i].Order < acts[j].Order })

	if len(acts) > 0 {
		for _, a := range acts {
			if a.StartTime != "" {
				start = a.StartTime
				break
			}
		}
		last := acts[len(acts)-1]
		switch {
		case last.EndTime != "":
			end = last.EndTime
		case last.StartTime != "":
			// no end time on the closing activity: assume one hour
			if h, m, err := parseClock(last.StartTime); err == nil {
				end = fmt.Sprintf("%02d:%02d", h+1, m)
			}
		}
	}

	dates := dateStr + "T" + clockCompact(start) + "/" + dateStr + "T" + clockCompact(end)

	var desc strings.Builder
	if it.Description != "" {
		desc.WriteString(it.Description + "\n\n")
	}
	desc.WriteString("ITINERARY:\n")
	for _, a := range acts {
		desc.WriteString("\n")
		if a.StartTime != "" {
			desc.WriteString(a.StartTime + " - ")
		}
		desc.WriteString(a.Title)
		if a.Location != nil && a.Location.Name != "" {
			desc.WriteString(" (" + a.Location.Name + ")")
		}
	}
	if it.Budget.Estimated.Total > 0 {
		desc.WriteString("\n\nEstimated Budget: $" + strconv.FormatFloat(it.Budget.Estimated.Total, 'f', -1, 64))
	}

	var names []string
	for _, loc := range it.KeyLocations {
		if loc.Name != "" {
			names = append(names, loc.Name)
		}
	}

	// parameter order is part of the contract; url.Values would sort it
	var q strings.Builder
	q.WriteString("action=TEMPLATE")
	q.WriteString("&text=" + url.QueryEscape(it.Title))
	q.WriteString("&dates=" + url.QueryEscape(dates))
	q.WriteString("&details=" + url.QueryEscape(desc.String()))
	if len(names) > 0 {
		q.WriteString("&location=" + url.QueryEscape(strings.Join(names, ", ")))
	}

	return calendarBase + "?" + q.String()
}

// clockCompact turns "HH:MM" into "HHMM00" for the dates parameter.
func clockCompact(s string) string {
	return strings.Replace(s, ":", "", 1) + "00"
}
