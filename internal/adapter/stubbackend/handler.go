// Package stubbackend serves a minimal reporting backend for local runs and
// end-to-end tests: canned daily reports in, CSV rows out.
package stubbackend

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/pallapizza/daily-report-runner/internal/adapter/csvstore"
	"github.com/pallapizza/daily-report-runner/internal/domain"
)

// AnyVenue is the fixture key used for venues without their own entry.
const AnyVenue = "*"

// Fixtures maps an upper-cased venue name to the raw daily report body served
// for it.
type Fixtures map[string]json.RawMessage

// LoadFixtures reads fixtures from a JSON object file.
func LoadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode fixtures: %w", err)
	}
	fx := make(Fixtures, len(raw))
	for venue, body := range raw {
		fx[strings.ToUpper(venue)] = body
	}
	return fx, nil
}

func (f Fixtures) lookup(venue string) (json.RawMessage, bool) {
	if body, ok := f[strings.ToUpper(venue)]; ok {
		return body, true
	}
	body, ok := f[AnyVenue]
	return body, ok
}

// NewHandler returns the stub backend routes.
func NewHandler(fixtures Fixtures, store *csvstore.Store, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"message": "Backend connected"})
	})
	mux.HandleFunc("GET /daily_report", handleDailyReport(fixtures, logger))
	mux.HandleFunc("POST /save_report_csv", handleSaveReport(store, logger))

	return mux
}

func handleDailyReport(fixtures Fixtures, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		venue := q.Get("venue_name")
		date := q.Get("date")
		if venue == "" || date == "" {
			sharedobs.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "venue_name and date are required"})
			return
		}
		if _, err := time.Parse(domain.DateLayout, date); err != nil {
			sharedobs.WriteJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "date must be YYYY-MM-DD"})
			return
		}

		body, ok := fixtures.lookup(venue)
		if !ok {
			sharedobs.WriteJSON(w, http.StatusNotFound, map[string]string{"error": "Venue not found"})
			return
		}

		logger.Info("daily report served", "venue", venue, "date", date, "lang", q.Get("lang"), "tone", q.Get("tone"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(body)
	}
}

func handleSaveReport(store *csvstore.Store, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var rec domain.Fields
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			sharedobs.WriteJSON(w, http.StatusBadRequest, map[string]string{"status": "error", "message": err.Error()})
			return
		}
		if err := store.Append(&rec); err != nil {
			logger.Error("save report failed", "error", err)
			sharedobs.WriteJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "could not store report"})
			return
		}
		logger.Info("report stored", "path", store.Path(), "fields", rec.Len())
		sharedobs.WriteJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Reporte guardado"})
	}
}
