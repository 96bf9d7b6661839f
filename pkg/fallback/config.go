package fallback

import (
	"fmt"
	"strings"
)

// Priority selects which subtag is kept longest during fallback.
type Priority uint8

const (
	// PriorityLanguage keeps the language and drops the region first.
	// Suitable for most localized strings.
	PriorityLanguage Priority = iota

	// PriorityRegion keeps the region and drops the language first.
	// Suitable for regional data such as week rules or currencies.
	PriorityRegion
)

func (p Priority) String() string {
	switch p {
	case PriorityLanguage:
		return "language"
	case PriorityRegion:
		return "region"
	default:
		return fmt.Sprintf("Priority(%d)", uint8(p))
	}
}

// ParsePriority parses "language" or "region".
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "language":
		return PriorityLanguage, nil
	case "region":
		return PriorityRegion, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
}

// Config controls the fallback chain for one category of data.
type Config struct {
	Priority Priority

	// ExtensionKey names a -u- keyword retained while other subtags are dropped,
	// e.g. "nu" for number formatting data. Empty drops every keyword at once.
	ExtensionKey string
}
