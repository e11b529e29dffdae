package identify

import (
	"time"

	"github.com/google/uuid"
)

// Locale is the active UI/content language pair.
type Locale string

const (
	LocaleFa Locale = "fa"
	LocaleAr Locale = "ar"
)

// ParseLocale validates a raw language code.
func ParseLocale(raw string) (Locale, bool) {
	switch Locale(raw) {
	case LocaleFa, LocaleAr:
		return Locale(raw), true
	}
	return "", false
}

// Code returns the bare language code used for catalog and host lookups.
func (l Locale) Code() string {
	if l == "" {
		return string(LocaleFa)
	}
	return string(l)
}

// State tracks where a session is in the capture/identify/enrich flow.
type State string

const (
	StateIdle        State = "idle"
	StateCapturing   State = "capturing"
	StateIdentifying State = "identifying"
	StateEnriching   State = "enriching"
	StateDisplaying  State = "displaying"
	StateErrored     State = "errored"
)

// Geo carries optional coordinate hints for identification. Captured once
// per session and immutable afterwards.
type Geo struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Suggestion is one candidate species with its confidence score, in the
// order the identification service ranked it.
type Suggestion struct {
	ScientificName string   `json:"scientificName"`
	Probability    float64  `json:"probability"`
	SimilarImages  []string `json:"similarImages,omitempty"`
}

// CareProfile holds the care guidance for the selected suggestion.
// Watering and Sunlight use the upstream's raw category values; the view
// layer translates them.
type CareProfile struct {
	SpeciesID int      `json:"speciesId"`
	Watering  string   `json:"watering"`
	Sunlight  []string `json:"sunlight"`
	Cycle     string   `json:"cycle,omitempty"`
	Pruning   []string `json:"pruning,omitempty"`
}

// Summary is the encyclopedia extract for the selected suggestion.
type Summary struct {
	Title      string `json:"title"`
	Extract    string `json:"extract"`
	ContentURL string `json:"contentUrl,omitempty"`
}

// StoredImage is the preview handle for a captured image. The underlying
// object must be released exactly once per assignment.
type StoredImage struct {
	Key      string `json:"key"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// FetchStatus distinguishes "no data" from "request failed" for
// best-effort enrichment fetches. The UI treats both as absent panels,
// but diagnostics keep the distinction.
type FetchStatus string

const (
	FetchOK     FetchStatus = "ok"
	FetchEmpty  FetchStatus = "empty"
	FetchFailed FetchStatus = "failed"
)

// Session is the top-level state holder for one identification flow.
// CareProfile and Summary always change together: both cleared on a new
// identification or re-selection, both populated by a single enrichment.
type Session struct {
	ID           uuid.UUID    `json:"id"`
	Locale       Locale       `json:"locale"`
	State        State        `json:"state"`
	Geo          *Geo         `json:"geo,omitempty"`
	Image        *StoredImage `json:"image,omitempty"`
	Suggestions  []Suggestion `json:"suggestions,omitempty"`
	Selected     int          `json:"selected"`
	Care         *CareProfile `json:"care,omitempty"`
	Summary      *Summary     `json:"summary,omitempty"`
	ErrorMessage string       `json:"errorMessage,omitempty"`
	// Generation guards enrichment: results are applied only when the
	// session generation still matches the one the fetch started with.
	Generation uint64    `json:"generation"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ClearResults drops every identification artifact before a new request
// so no stale data survives into the next cycle.
func (s *Session) ClearResults() {
	s.Suggestions = nil
	s.Selected = -1
	s.Care = nil
	s.Summary = nil
	s.ErrorMessage = ""
}

// ClearEnrichment drops care and summary together ahead of re-selection.
func (s *Session) ClearEnrichment() {
	s.Care = nil
	s.Summary = nil
}
