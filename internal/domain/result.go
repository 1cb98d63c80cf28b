package domain

// Stage identifies the step of a venue's report that failed.
type Stage string

const (
	StageFetch Stage = "fetch"
	StageSave  Stage = "save"
)

// VenueResult is the outcome of reporting one venue.
type VenueResult struct {
	Venue string
	Stage Stage // empty on success
	Err   error
}

// OK reports whether the venue's record was saved.
func (r VenueResult) OK() bool {
	return r.Err == nil
}

// RunSummary aggregates the venue outcomes of one run.
type RunSummary struct {
	Date      string
	Results   []VenueResult
	Succeeded int
	Failed    int
}

// Add records a venue outcome.
func (s *RunSummary) Add(r VenueResult) {
	s.Results = append(s.Results, r)
	if r.OK() {
		s.Succeeded++
		return
	}
	s.Failed++
}

// FailedVenues lists the venues that were not saved, in run order.
func (s RunSummary) FailedVenues() []string {
	var venues []string
	for _, r := range s.Results {
		if !r.OK() {
			venues = append(venues, r.Venue)
		}
	}
	return venues
}
