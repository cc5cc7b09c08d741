package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
)

const pageSize = 10

func main() {
	var (
		port = flag.String("port", "9098", "port to listen on")
		data = flag.String("data", "mock-omdb.json", "path to mock data file")
	)
	flag.Parse()

	file, err := os.ReadFile(*data)
	if err != nil {
		log.Fatalf("read mock data: %v", err)
	}

	// Entries are full OMDb-shaped payloads keyed by IMDb id.
	var entries map[string]map[string]interface{}
	if err := json.Unmarshal(file, &entries); err != nil {
		log.Fatalf("parse mock data: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		if id := query.Get("i"); id != "" {
			entry, ok := entries[id]
			if !ok {
				writeJSON(w, map[string]string{"Response": "False", "Error": "Incorrect IMDb ID."})
				return
			}
			entry["Response"] = "True"
			writeJSON(w, entry)
			return
		}

		if term := query.Get("s"); term != "" {
			writeJSON(w, search(entries, term, query.Get("page")))
			return
		}

		writeJSON(w, map[string]string{"Response": "False", "Error": "Incorrect request."})
	})

	addr := ":" + *port
	log.Printf("mock omdb listening on %s with %d entries", addr, len(entries))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func search(entries map[string]map[string]interface{}, term, pageRaw string) interface{} {
	page, err := strconv.Atoi(pageRaw)
	if err != nil || page < 1 {
		page = 1
	}

	matches := make([]map[string]interface{}, 0)
	for id, entry := range entries {
		title, _ := entry["Title"].(string)
		if !strings.Contains(strings.ToLower(title), strings.ToLower(term)) {
			continue
		}
		matches = append(matches, map[string]interface{}{
			"imdbID": id,
			"Title":  title,
			"Year":   entry["Year"],
			"Type":   entry["Type"],
		})
	}

	if len(matches) == 0 {
		return map[string]string{"Response": "False", "Error": "Movie not found!"}
	}

	start := (page - 1) * pageSize
	if start >= len(matches) {
		return map[string]string{"Response": "False", "Error": "Movie not found!"}
	}
	end := start + pageSize
	if end > len(matches) {
		end = len(matches)
	}

	return map[string]interface{}{
		"Response":     "True",
		"Search":       matches[start:end],
		"totalResults": strconv.Itoa(len(matches)),
	}
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
