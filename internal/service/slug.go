package service

import (
	"regexp"
	"strings"
)

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify pasa a minúsculas, colapsa cada tramo no alfanumérico en un guion
// y recorta guiones en los extremos. Es idempotente.
func Slugify(value string) string {
	s := strings.ToLower(strings.TrimSpace(value))
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
