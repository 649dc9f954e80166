package validation

import "time"

func parseDate(s string) (time.Time, error) {
	return time.Parse(isoDateLayout, s)
}

// ValidDate reports whether s is a calendar date in YYYY-MM-DD form.
func ValidDate(s string) bool {
	_, err := parseDate(s)
	return err == nil
}
