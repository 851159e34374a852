package reporting

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"birs-backend/internal/models"
	"birs-backend/internal/timeutil"
)

// EntryFilter narrows the set of entries fed into aggregation. All supplied
// fields AND together. Date bounds are inclusive at calendar-day granularity;
// a single bound gives a one-sided interval. Applying a filter never touches
// the store, it only selects entries.
type EntryFilter struct {
	From       *time.Time
	To         *time.Time
	Month      int // 1-12, 0 = unset
	Year       int // 0 = unset
	TaxItem    string
	Subhead    string
	UploaderID int // 0 = all uploaders

	// Limit and Offset page the result set after filtering. 0 = no paging.
	Limit  int
	Offset int

	// Ignored lists filter parameters that were supplied but malformed and
	// therefore skipped. Reported back to the caller, never fatal.
	Ignored []string
}

// ParseEntryFilter reads filter parameters from query values. Malformed
// values are dropped and recorded in Ignored rather than returned as errors.
func ParseEntryFilter(values url.Values) EntryFilter {
	var f EntryFilter

	if s := values.Get("from_date"); s != "" {
		if t, err := timeutil.ParseDay(s); err == nil {
			f.From = &t
		} else {
			f.Ignored = append(f.Ignored, fmt.Sprintf("from_date=%s", s))
		}
	}
	if s := values.Get("to_date"); s != "" {
		if t, err := timeutil.ParseDay(s); err == nil {
			end := timeutil.EndOfDay(t)
			f.To = &end
		} else {
			f.Ignored = append(f.Ignored, fmt.Sprintf("to_date=%s", s))
		}
	}
	if s := values.Get("month"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 && n <= 12 {
			f.Month = n
		} else {
			f.Ignored = append(f.Ignored, fmt.Sprintf("month=%s", s))
		}
	}
	if s := values.Get("year"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			f.Year = n
		} else {
			f.Ignored = append(f.Ignored, fmt.Sprintf("year=%s", s))
		}
	}
	f.TaxItem = strings.TrimSpace(values.Get("tax_item"))
	f.Subhead = strings.TrimSpace(values.Get("subhead"))

	if s := values.Get("uploader_id"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			f.UploaderID = n
		} else {
			f.Ignored = append(f.Ignored, fmt.Sprintf("uploader_id=%s", s))
		}
	}
	if s := values.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			f.Limit = n
		} else {
			f.Ignored = append(f.Ignored, fmt.Sprintf("limit=%s", s))
		}
	}
	if s := values.Get("offset"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 0 {
			f.Offset = n
		} else {
			f.Ignored = append(f.Ignored, fmt.Sprintf("offset=%s", s))
		}
	}

	return f
}

// Matches reports whether the entry falls inside the filter window. The
// grouping key is always the upload timestamp; the entry's stored month and
// year columns are display copies and are not consulted.
func (f EntryFilter) Matches(e *models.TaxEntry) bool {
	if f.UploaderID != 0 && e.UploadedBy != f.UploaderID {
		return false
	}
	if f.From != nil && e.DateUploaded.Before(*f.From) {
		return false
	}
	if f.To != nil && e.DateUploaded.After(*f.To) {
		return false
	}
	t := timeutil.ToWAT(e.DateUploaded)
	if f.Month != 0 && int(t.Month()) != f.Month {
		return false
	}
	if f.Year != 0 && t.Year() != f.Year {
		return false
	}
	if f.TaxItem != "" && !strings.Contains(strings.ToLower(e.TaxItem), strings.ToLower(f.TaxItem)) {
		return false
	}
	if f.Subhead != "" && !strings.Contains(strings.ToLower(e.Subhead), strings.ToLower(f.Subhead)) {
		return false
	}
	return true
}

// Apply returns the entries that match the filter, preserving order, then
// pages the result with Offset and Limit.
func (f EntryFilter) Apply(entries []*models.TaxEntry) []*models.TaxEntry {
	out := make([]*models.TaxEntry, 0, len(entries))
	for _, e := range entries {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return out[:0]
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out
}
