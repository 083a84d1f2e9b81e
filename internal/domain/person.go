package domain

import "regexp"

var personPattern = regexp.MustCompile(`^(.+?)\s*\((.+)\)$`)

// SplitPerson splits "<name> (<serial>)" into its parts. A value that does not
// match is returned whole as the name with an empty serial.
func SplitPerson(person string) (name, serial string) {
	m := personPattern.FindStringSubmatch(person)
	if m == nil {
		return person, ""
	}
	return m[1], m[2]
}
