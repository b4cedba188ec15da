package audit

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeZone is the fixed offset used when no zone is configured
const DefaultTimeZone = "+03:00"

// ErrInvalidTimeZone is returned when a zone string cannot be interpreted
var ErrInvalidTimeZone = errors.New("audit: invalid time zone")

// DefaultLocation returns the fixed-offset location for DefaultTimeZone
func DefaultLocation() *time.Location {
	loc, _ := parseOffset(DefaultTimeZone)
	return loc
}

// ParseTimeZone resolves a configured zone. Accepted forms:
//   - "" (DefaultTimeZone)
//   - "UTC", "Local"
//   - a fixed offset: "+03:00", "-0530", "+3"
//   - an IANA name such as "Europe/Moscow"
func ParseTimeZone(name string) (*time.Location, error) {
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return DefaultLocation(), nil
	case strings.EqualFold(name, "utc"), name == "Z":
		return time.UTC, nil
	case strings.EqualFold(name, "local"):
		return time.Local, nil
	case name[0] == '+' || name[0] == '-':
		return parseOffset(name)
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimeZone, name, err)
	}
	return loc, nil
}

// parseOffset parses "+HH:MM", "+HHMM" or "+H" into a fixed zone
func parseOffset(s string) (*time.Location, error) {
	sign := 1
	if s[0] == '-' {
		sign = -1
	}
	body := strings.ReplaceAll(s[1:], ":", "")

	var hours, minutes int
	var err error
	switch len(body) {
	case 1, 2:
		hours, err = strconv.Atoi(body)
	case 4:
		hours, err = strconv.Atoi(body[:2])
		if err == nil {
			minutes, err = strconv.Atoi(body[2:])
		}
	default:
		err = errors.New("unexpected length")
	}
	if err != nil || hours < 0 || hours > 14 || minutes < 0 || minutes > 59 {
		return nil, fmt.Errorf("%w: offset %q", ErrInvalidTimeZone, s)
	}

	offset := sign * (hours*3600 + minutes*60)
	return time.FixedZone(formatOffset(offset), offset), nil
}

func formatOffset(seconds int) string {
	sign := '+'
	if seconds < 0 {
		sign = '-'
		seconds = -seconds
	}
	return fmt.Sprintf("UTC%c%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}
