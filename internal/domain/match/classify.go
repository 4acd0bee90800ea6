// Package match implements value classification and the single canonical
// comparison routine used wherever an executor capability is checked against
// a request parameter.
package match

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Kind is the value class assigned by Classify.
type Kind string

const (
	KindDate    Kind = "date"
	KindInteger Kind = "integer"
	KindFloat   Kind = "float"
	KindText    Kind = "text"
	KindString  Kind = "string"
	KindRaster  Kind = "raster"
	KindUnknown Kind = "unknown"
)

var (
	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),   // YYYY-MM-DD
		regexp.MustCompile(`^\d{2}\.\d{2}\.\d{4}$`), // DD.MM.YYYY
		regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`),   // DD/MM/YYYY
		regexp.MustCompile(`^\d{4}\.\d{2}\.\d{2}$`), // YYYY.MM.DD
	}
	integerPattern = regexp.MustCompile(`^-?\d+$`)
	floatPattern   = regexp.MustCompile(`^-?\d+\.\d+$`)
	textPattern    = regexp.MustCompile(`^[a-zA-Zа-яА-ЯёЁ\s]+$`)
)

var rasterExts = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {},
	".tiff": {}, ".tif": {}, ".webp": {}, ".svg": {},
}

// Classify assigns a Kind to a raw parameter value. Total and deterministic:
// every input maps to exactly one Kind and never panics. Date patterns are
// anchored; "2024-1-5" is a string, not a date.
func Classify(value string) Kind {
	v := strings.TrimSpace(value)
	if v == "" {
		return KindUnknown
	}
	for _, p := range datePatterns {
		if p.MatchString(v) {
			return KindDate
		}
	}
	if integerPattern.MatchString(v) {
		return KindInteger
	}
	if floatPattern.MatchString(v) {
		return KindFloat
	}
	if _, ok := rasterExts[strings.ToLower(filepath.Ext(v))]; ok {
		return KindRaster
	}
	if textPattern.MatchString(v) {
		return KindText
	}
	return KindString
}
