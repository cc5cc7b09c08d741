package omdb

import (
	"strings"
	"testing"
)

func FuzzNormalizeRecord(f *testing.F) {
	f.Add("R", "148 min", "8.8", "2,847,123")
	f.Add("N/A", "N/A", "N/A", "N/A")
	f.Add("", " N/A ", "abc", "1,2,3")

	f.Fuzz(func(t *testing.T, rated, runtime, rating, votes string) {
		payload := titlePayload{
			Response:   "True",
			ImdbID:     "tt0000001",
			Title:      "Fuzz Title",
			Year:       "2001",
			Type:       "movie",
			Rated:      rated,
			Runtime:    runtime,
			ImdbRating: rating,
			ImdbVotes:  votes,
		}

		record := normalizeRecord(payload)

		for name, field := range map[string]*string{
			"Rated":   record.Rated,
			"Runtime": record.Runtime,
		} {
			if field == nil {
				continue
			}
			if *field == sentinel {
				t.Fatalf("%s leaked the sentinel", name)
			}
			if strings.TrimSpace(*field) == "" {
				t.Fatalf("%s kept a blank value", name)
			}
		}
		if record.ImdbID != "tt0000001" || record.Title != "Fuzz Title" {
			t.Fatalf("identity fields mangled: %+v", record)
		}
	})
}
