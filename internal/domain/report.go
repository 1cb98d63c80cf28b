package domain

import "errors"

// ErrEmptyReport is returned when the backend answers a report request with
// an empty or falsy body.
var ErrEmptyReport = errors.New("empty daily report")

// Default report parameters.
const (
	DefaultLang = "es"
	DefaultTone = "funny"
)

// DefaultVenues is the venue set reported when none is configured.
var DefaultVenues = []string{"PAMPLONA", "BILBAO", "BURGOS", "VITORIA", "ZARAGOZA", "SAN SEBASTIAN"}

// Record column names that the runner always owns.
const (
	FieldDate  = "date"
	FieldVenue = "venue"
)

// ReportRequest holds the query parameters of a daily report request.
type ReportRequest struct {
	BackendURL string
	Venue      string
	Date       string
	Lang       string
	Tone       string
}

// DailyReport is the backend's answer for one venue and date. Either object
// may be nil when the backend omits it.
type DailyReport struct {
	KPIData       *Fields `json:"kpi_data"`
	SyntheticData *Fields `json:"synthetic_data"`
}

// BuildRecord flattens a daily report into the record saved by the backend:
// date and venue first, then kpi_data, then synthetic_data. Later sources win
// on key collisions, date and venue included; an overwritten key keeps its
// position.
func BuildRecord(date, venue string, report DailyReport) *Fields {
	rec := NewFields()
	rec.SetString(FieldDate, date)
	rec.SetString(FieldVenue, venue)
	rec.Merge(report.KPIData)
	rec.Merge(report.SyntheticData)
	return rec
}
