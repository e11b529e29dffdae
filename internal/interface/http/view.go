package http

import (
	"fmt"

	"github.com/golbarg/plantcare/internal/domain/i18n"
	"github.com/golbarg/plantcare/internal/domain/identify"
	"github.com/golbarg/plantcare/pkg/util"
)

// SessionView is the localized render model for one session: the upload,
// results, care-guide and error panels the client draws.
type SessionView struct {
	ID      string            `json:"id"`
	State   identify.State    `json:"state"`
	Locale  string            `json:"locale"`
	Dir     string            `json:"dir"`
	Labels  map[string]string `json:"labels"`
	Image   *ImageView        `json:"image,omitempty"`
	Error   *ErrorView        `json:"error,omitempty"`
	Results []ResultView      `json:"results"`
	Care    *CareView         `json:"care,omitempty"`
	Summary *SummaryView      `json:"summary,omitempty"`
}

// ImageView describes the captured preview.
type ImageView struct {
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// ErrorView carries the single user-facing error message.
type ErrorView struct {
	Message string `json:"message"`
}

// ResultView is one suggestion row in the results panel.
type ResultView struct {
	Index          int      `json:"index"`
	ScientificName string   `json:"scientificName"`
	Probability    float64  `json:"probability"`
	Percent        int      `json:"percent"`
	Selected       bool     `json:"selected"`
	SimilarImages  []string `json:"similarImages,omitempty"`
}

// CareView is the translated care-guide panel.
type CareView struct {
	Watering TranslatedValue   `json:"watering"`
	Sunlight []TranslatedValue `json:"sunlight"`
	Cycle    string            `json:"cycle,omitempty"`
}

// TranslatedValue pairs the upstream value with its localized label.
type TranslatedValue struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// SummaryView is the encyclopedia panel.
type SummaryView struct {
	Title      string `json:"title,omitempty"`
	Extract    string `json:"extract"`
	ContentURL string `json:"contentUrl,omitempty"`
}

func buildView(sess *identify.Session) SessionView {
	lang := sess.Locale.Code()
	view := SessionView{
		ID:      sess.ID.String(),
		State:   sess.State,
		Locale:  lang,
		Dir:     i18n.Direction,
		Labels:  i18n.Strings(lang),
		Results: make([]ResultView, 0, len(sess.Suggestions)),
	}

	if sess.Image != nil {
		view.Image = &ImageView{
			URL:      fmt.Sprintf("/api/v1/sessions/%s/image", sess.ID),
			MimeType: sess.Image.MimeType,
			Size:     sess.Image.Size,
		}
	}
	if sess.ErrorMessage != "" {
		view.Error = &ErrorView{Message: sess.ErrorMessage}
	}
	for i, sug := range sess.Suggestions {
		view.Results = append(view.Results, ResultView{
			Index:          i,
			ScientificName: sug.ScientificName,
			Probability:    sug.Probability,
			Percent:        util.Percent(sug.Probability),
			Selected:       i == sess.Selected,
			SimilarImages:  sug.SimilarImages,
		})
	}
	if sess.Care != nil {
		care := &CareView{
			Watering: TranslatedValue{
				Value: sess.Care.Watering,
				Label: i18n.TranslateWatering(lang, sess.Care.Watering),
			},
			Sunlight: make([]TranslatedValue, 0, len(sess.Care.Sunlight)),
			Cycle:    sess.Care.Cycle,
		}
		labels := i18n.TranslateSunlight(lang, sess.Care.Sunlight)
		for i, value := range sess.Care.Sunlight {
			care.Sunlight = append(care.Sunlight, TranslatedValue{Value: value, Label: labels[i]})
		}
		view.Care = care
	}
	if sess.Summary != nil {
		view.Summary = &SummaryView{
			Title:      sess.Summary.Title,
			Extract:    sess.Summary.Extract,
			ContentURL: sess.Summary.ContentURL,
		}
	}
	return view
}
