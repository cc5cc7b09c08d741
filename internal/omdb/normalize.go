package omdb

import (
	"strconv"
	"strings"
)

// sentinel is the literal string the upstream substitutes for unknown
// fields. It must never leak past this package.
const sentinel = "N/A"

func normalizeRecord(payload titlePayload) *Record {
	return &Record{
		ImdbID:     payload.ImdbID,
		Title:      payload.Title,
		Year:       payload.Year,
		Type:       payload.Type,
		Rated:      optionalText(payload.Rated),
		Released:   optionalText(payload.Released),
		Runtime:    optionalText(payload.Runtime),
		Genre:      optionalText(payload.Genre),
		Director:   optionalText(payload.Director),
		Writer:     optionalText(payload.Writer),
		Actors:     optionalText(payload.Actors),
		Plot:       optionalText(payload.Plot),
		Language:   optionalText(payload.Language),
		Country:    optionalText(payload.Country),
		Awards:     optionalText(payload.Awards),
		Poster:     optionalText(payload.Poster),
		ImdbRating: optionalFloat(payload.ImdbRating),
		ImdbVotes:  optionalCount(payload.ImdbVotes),
		BoxOffice:  optionalText(payload.BoxOffice),
		Production: optionalText(payload.Production),
		Website:    optionalText(payload.Website),
	}
}

func optionalText(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" || value == sentinel {
		return nil
	}
	return &value
}

// optionalFloat parses a numeric rating from its text form. A value that
// fails to parse becomes absence, never an error.
func optionalFloat(value string) *float64 {
	text := optionalText(value)
	if text == nil {
		return nil
	}
	parsed, err := strconv.ParseFloat(*text, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// optionalCount parses a vote count, tolerating thousands separators
// ("2,847,123") in the upstream text.
func optionalCount(value string) *int64 {
	text := optionalText(value)
	if text == nil {
		return nil
	}
	parsed, err := strconv.ParseInt(strings.ReplaceAll(*text, ",", ""), 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}
