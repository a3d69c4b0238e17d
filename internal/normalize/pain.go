package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AnikS22/Scribe-checker/internal/model"
)

// PainParseOutcome tags which path produced a PainRating, so callers (and
// tests) can tell a clean parse from a fallback.
type PainParseOutcome string

const (
	// PainEmpty: the backend sent nothing usable; rating is zero-valued.
	PainEmpty PainParseOutcome = "empty"
	// PainObject: the backend sent a well-formed {level, location} object.
	PainObject PainParseOutcome = "object"
	// PainParsedString: a loose string like "7/10 in lower back" was
	// heuristically split into level and location.
	PainParsedString PainParseOutcome = "parsed_string"
	// PainFallback: the string resisted parsing; the raw text is kept as
	// the location and the level is left empty.
	PainFallback PainParseOutcome = "fallback"
)

// PainRating coerces whatever the extraction backend returned for
// pain_rating into a well-formed model.PainRating. It never fails: anything
// unrecognizable degrades to a fallback carrying the raw text.
func PainRating(v any) (model.PainRating, PainParseOutcome) {
	switch val := v.(type) {
	case nil:
		return model.PainRating{}, PainEmpty
	case map[string]any:
		r := model.PainRating{
			Level:    scalarString(val["level"]),
			Location: scalarString(val["location"]),
		}
		if r == (model.PainRating{}) {
			return r, PainEmpty
		}
		return r, PainObject
	case string:
		return painFromString(val)
	case float64:
		return model.PainRating{Level: trimFloat(val)}, PainObject
	}
	return model.PainRating{Location: fmt.Sprintf("%v", v)}, PainFallback
}

// painFromString splits strings of the shape "<level>/10 in <location>".
func painFromString(s string) (model.PainRating, PainParseOutcome) {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.PainRating{}, PainEmpty
	}

	levelPart := s
	location := ""
	if before, after, found := strings.Cut(s, " in "); found {
		levelPart = before
		location = strings.TrimSpace(after)
	}
	if before, _, found := strings.Cut(levelPart, "/"); found {
		levelPart = before
	}

	level := strings.TrimSpace(levelPart)
	if _, err := strconv.ParseFloat(level, 64); err != nil {
		return model.PainRating{Location: s}, PainFallback
	}
	return model.PainRating{Level: level, Location: location}, PainParsedString
}

func trimFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
