// Package domain models the daily venue report exchanged with the reporting
// backend.
//
// # Report Flow
//
// For every configured venue the runner asks the backend for a daily report:
//
//	GET {BACKEND_URL}/daily_report?url=...&venue_name=...&date=YYYY-MM-DD&lang=es&tone=funny
//
// The backend answers with two opaque objects:
//
//	{
//	  "kpi_data":       {"objective": 1200, "prediction": 1350.5, ...},
//	  "synthetic_data": {"clima": "sunny", "frase_motivacional": "...", ...}
//	}
//
// Their fields are flattened into a single record which is posted back to
// {BACKEND_URL}/save_report_csv, where the backend appends it as a CSV row.
//
// # Record Layout
//
// A record is an insertion-ordered JSON object, because the backend derives the
// CSV header from the key order of the first record it stores:
//
//	date, venue, <kpi_data keys...>, <synthetic_data keys...>
//
// Merging is a shallow overwrite: when both objects carry the same key the
// synthetic_data value wins and the key keeps its first position. The same
// holds for date and venue: a report field with either name replaces the
// run's value but stays in the leading columns.
//
// # Dates
//
// Report dates are UTC calendar dates (YYYY-MM-DD) taken from the package
// clock. A run computes its date once so that a run crossing midnight still
// reports every venue for the same day. See [Today].
package domain
