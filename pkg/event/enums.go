package event

import (
	"fmt"
	"strings"
)

// Location is where an event takes place.
type Location int

const (
	LocationUnset Location = iota
	LocationPhysical
	LocationOnline
)

// ParseLocation reads a location literal case-insensitively. Only "physical"
// and "online" are valid values.
func ParseLocation(s string) (Location, error) {
	switch strings.ToLower(s) {
	case "physical":
		return LocationPhysical, nil
	case "online":
		return LocationOnline, nil
	}
	return LocationUnset, fmt.Errorf("%w: location must be either 'Online' or 'Physical', got %q", ErrInvalidArgument, s)
}

func (l Location) String() string {
	switch l {
	case LocationPhysical:
		return "Physical"
	case LocationOnline:
		return "Online"
	}
	return ""
}

// Status is the visibility of an event.
type Status int

const (
	StatusUnset Status = iota
	StatusPublic
	StatusPrivate
)

// ParseStatus reads a status literal case-insensitively. Only "public" and
// "private" are valid values.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "public":
		return StatusPublic, nil
	case "private":
		return StatusPrivate, nil
	}
	return StatusUnset, fmt.Errorf("%w: status must be either 'Public' or 'Private', got %q", ErrInvalidArgument, s)
}

func (s Status) String() string {
	switch s {
	case StatusPublic:
		return "Public"
	case StatusPrivate:
		return "Private"
	}
	return ""
}
