// Command stubbackend serves a stand-in reporting backend for local runs of
// the reporter. Daily reports come from a JSON fixture file keyed by venue
// ("*" matches any venue); saved reports are appended to a CSV file.
//
// Usage:
//
//	go run ./cmd/stubbackend \
//	  -addr :8000 \
//	  -fixtures data/mock/daily_reports.json \
//	  -csv data/out/daily_reports.csv
//
//	BACKEND_URL=http://localhost:8000 go run ./cmd/reporter
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/pallapizza/daily-report-runner/internal/adapter/csvstore"
	"github.com/pallapizza/daily-report-runner/internal/adapter/stubbackend"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	addr := flag.String("addr", ":8000", "listen address")
	fixturesPath := flag.String("fixtures", "data/mock/daily_reports.json", "JSON file of daily reports keyed by venue")
	csvPath := flag.String("csv", "data/out/daily_reports.csv", "CSV file that saved reports are appended to")
	flag.Parse()

	if *fixturesPath == "" || *csvPath == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -fixtures, -csv")
	}

	fixtures, err := stubbackend.LoadFixtures(*fixturesPath)
	if err != nil {
		return err
	}

	logger := sharedobs.NewLogger("info", "text")
	srv := &http.Server{
		Addr:              *addr,
		Handler:           stubbackend.NewHandler(fixtures, csvstore.New(*csvPath), logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("stub backend listening", "addr", *addr, "fixtures", len(fixtures), "csv", *csvPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
