// Package results collects race classifications from the event results API
// and normalizes them into flat athlete records.
package results

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aarondl/opt/null"
)

// Gender is the gender token as reported by the results API.
type Gender string

// Bib is a start number. The API reports bibs as strings, older races as
// numbers; both decode to their textual form.
type Bib string

// UnmarshalJSON accepts a JSON string, number or null.
func (b *Bib) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*b = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode bib: %w", err)
		}
		*b = Bib(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("decode bib: %w", err)
		}
		*b = Bib(n.String())
		return nil
	}
}

// SplitRecord is one intermediate timing point of an athlete.
type SplitRecord struct {
	Name string `json:"name"`
	// Time is the cumulative time in seconds, null when unparsable.
	Time null.Val[int] `json:"time"`
}

// AthleteRecord is the normalized classification of one athlete.
//
// Splits is nil when splits were not read, which omits the field from JSON
// entirely. When splits were read it is non-nil, so an athlete without
// splits renders as [].
type AthleteRecord struct {
	Name         string        `json:"name"`
	Bib          Bib           `json:"bib"`
	Gender       Gender        `json:"gender"`
	Category     string        `json:"category"`
	Rank         int           `json:"rank"`
	GenderRank   int           `json:"genderRank"`
	CategoryRank int           `json:"categoryRank"`
	CountryCode  string        `json:"countryCode"`
	ChipTime     null.Val[int] `json:"chipTime"`
	Splits       []SplitRecord `json:"splits,omitzero"`
}

// HasSplits reports whether splits were read for this record.
func (r AthleteRecord) HasSplits() bool {
	return r.Splits != nil
}
