// Package timeblock localizes reference-zone time blocks and classifies
// them by historical viewer/streamer ratio.
package timeblock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/streamscoutapp/streamscout-server/internal/domain"
)

// Converter maps reference-zone hours to a viewer's wall clock.
// Conversions go through absolute instants so DST and offset changes are honored.
type Converter struct {
	reference *time.Location
	now       func() time.Time
}

// NewConverter creates a converter anchored on the reference zone.
// A nil reference means UTC; a nil clock means time.Now.
func NewConverter(reference *time.Location, now func() time.Time) *Converter {
	if reference == nil {
		reference = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Converter{reference: reference, now: now}
}

// Reference returns the zone historical data is recorded in.
func (c *Converter) Reference() *time.Location {
	return c.reference
}

// LocalRange renders a reference-zone "SS-EE" range in the viewer's zone,
// e.g. "13-17" becomes "1pm-5pm UTC". Input without a separator, or with
// hours that do not parse, is returned unchanged.
func (c *Converter) LocalRange(hourRange string, viewer *time.Location) string {
	start, end, ok := splitRange(hourRange)
	if !ok {
		return hourRange
	}
	if viewer == nil {
		viewer = c.reference
	}

	startLocal := c.instant(start).In(viewer)
	endLocal := c.instant(end).In(viewer)
	zone, _ := startLocal.Zone()

	return HourLabel(startLocal.Hour()) + "-" + HourLabel(endLocal.Hour()) + " " + zone
}

// LocalBlockLabel renders a block as viewer-local 24-hour "HH-HH".
// A range ending at local midnight is written with 24.
func (c *Converter) LocalBlockLabel(block domain.TimeBlock, viewer *time.Location) string {
	if !block.Valid() {
		return string(block)
	}
	if viewer == nil {
		viewer = c.reference
	}
	start, end := block.Hours()
	startHour := c.instant(start).In(viewer).Hour()
	endHour := c.instant(end).In(viewer).Hour()
	if endHour == 0 {
		endHour = 24
	}
	return fmt.Sprintf("%02d-%02d", startHour, endHour)
}

// instant returns today's hour in the reference zone. Hour 24 is midnight
// of the following day.
func (c *Converter) instant(hour int) time.Time {
	y, m, d := c.now().In(c.reference).Date()
	if hour == 24 {
		return time.Date(y, m, d+1, 0, 0, 0, 0, c.reference)
	}
	return time.Date(y, m, d, hour, 0, 0, 0, c.reference)
}

func splitRange(hourRange string) (start, end int, ok bool) {
	left, right, found := strings.Cut(hourRange, "-")
	if !found {
		return 0, 0, false
	}
	start, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil || start < 0 || start > 24 {
		return 0, 0, false
	}
	end, err = strconv.Atoi(strings.TrimSpace(right))
	if err != nil || end < 0 || end > 24 {
		return 0, 0, false
	}
	return start, end, true
}

// HourLabel formats an hour of day as a 12-hour label such as "3pm" or "12am".
func HourLabel(hour int) string {
	hour = ((hour % 24) + 24) % 24
	switch {
	case hour == 0:
		return "12am"
	case hour < 12:
		return strconv.Itoa(hour) + "am"
	case hour == 12:
		return "12pm"
	default:
		return strconv.Itoa(hour-12) + "pm"
	}
}

// ResolveLocation loads an IANA zone, falling back when name is empty or unknown.
func ResolveLocation(name string, fallback *time.Location) *time.Location {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return fallback
	}
	return loc
}
