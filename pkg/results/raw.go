package results

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aarondl/opt/omitnull"
)

// ErrMissingField is returned when a response lacks a structural field.
// The source format is assumed stable, so this is fatal to a collection.
var ErrMissingField = errors.New("missing field in results response")

// Page is one decoded classification search response.
type Page struct {
	FullClassifications []RawEntry `json:"fullClassifications"`
}

// RawEntry is a classification entry as delivered by the API.
type RawEntry struct {
	Athlete        *RawAthlete        `json:"athlete"`
	Classification *RawClassification `json:"classification"`
}

// RawAthlete holds the athlete identity of an entry.
type RawAthlete struct {
	Name omitnull.Val[string] `json:"name"`
}

// RawClassification holds the ranking and timing fields of an entry.
// Fields are unset when the key is absent from the response.
type RawClassification struct {
	Bib          omitnull.Val[Bib]        `json:"bib"`
	Gender       omitnull.Val[Gender]     `json:"gender"`
	Category     omitnull.Val[string]     `json:"category"`
	Rank         omitnull.Val[int]        `json:"rank"`
	GenderRank   omitnull.Val[int]        `json:"genderRank"`
	CategoryRank omitnull.Val[int]        `json:"categoryRank"`
	CountryCode  omitnull.Val[string]     `json:"countryCode"`
	ChipTime     omitnull.Val[string]     `json:"chipTime"`
	Splits       omitnull.Val[[]RawSplit] `json:"splits"`
}

// RawSplit is one split entry with its cumulative clock time.
type RawSplit struct {
	Name           omitnull.Val[string] `json:"name"`
	CumulativeTime omitnull.Val[string] `json:"cumulativeTime"`
}

// Normalize maps every entry of the page, preserving order.
func (p Page) Normalize(readSplits bool) ([]AthleteRecord, error) {
	if p.FullClassifications == nil {
		return nil, fmt.Errorf("%w: fullClassifications", ErrMissingField)
	}

	records := make([]AthleteRecord, 0, len(p.FullClassifications))
	for i, entry := range p.FullClassifications {
		record, err := entry.Normalize(readSplits)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		records = append(records, record)
	}

	return records, nil
}

// Normalize flattens the entry into an AthleteRecord. Unparsable or null
// times become null. Absent keys are an error naming every missing key;
// splits are only required when readSplits is set.
func (e RawEntry) Normalize(readSplits bool) (AthleteRecord, error) {
	if e.Athlete == nil {
		return AthleteRecord{}, fmt.Errorf("%w: athlete", ErrMissingField)
	}
	if e.Classification == nil {
		return AthleteRecord{}, fmt.Errorf("%w: classification", ErrMissingField)
	}

	var missing []string
	c := e.Classification
	record := AthleteRecord{
		Name:         field(&missing, "athlete.name", e.Athlete.Name),
		Bib:          field(&missing, "classification.bib", c.Bib),
		Gender:       field(&missing, "classification.gender", c.Gender),
		Category:     field(&missing, "classification.category", c.Category),
		Rank:         field(&missing, "classification.rank", c.Rank),
		GenderRank:   field(&missing, "classification.genderRank", c.GenderRank),
		CategoryRank: field(&missing, "classification.categoryRank", c.CategoryRank),
		CountryCode:  field(&missing, "classification.countryCode", c.CountryCode),
		ChipTime:     ClockSeconds(field(&missing, "classification.chipTime", c.ChipTime)),
	}

	if readSplits {
		raw, ok := c.Splits.Get()
		if !ok {
			missing = append(missing, "classification.splits")
		}
		record.Splits = normalizeSplits(&missing, raw)
	}

	if len(missing) > 0 {
		return AthleteRecord{}, fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
	}

	return record, nil
}

// normalizeSplits never returns nil so that read-but-empty splits stay visible.
func normalizeSplits(missing *[]string, raw []RawSplit) []SplitRecord {
	splits := make([]SplitRecord, 0, len(raw))
	for i, s := range raw {
		prefix := fmt.Sprintf("classification.splits[%d].", i)
		splits = append(splits, SplitRecord{
			Name: field(missing, prefix+"name", s.Name),
			Time: ClockSeconds(field(missing, prefix+"cumulativeTime", s.CumulativeTime)),
		})
	}
	return splits
}

// field returns the value of v, the zero value for JSON null, and records
// name in missing when the key was absent.
func field[T any](missing *[]string, name string, v omitnull.Val[T]) T {
	if v.IsUnset() {
		*missing = append(*missing, name)
	}
	return v.GetOrZero()
}
