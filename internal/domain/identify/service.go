package identify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/golbarg/plantcare/internal/domain/i18n"
	apperrors "github.com/golbarg/plantcare/pkg/errors"
)

// Service drives the capture -> identify -> enrich -> display flow.
type Service interface {
	CreateSession(ctx context.Context, locale Locale, geo *Geo, clientIP string) (*Session, error)
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	SetLocale(ctx context.Context, id uuid.UUID, locale Locale) (*Session, error)
	AttachImage(ctx context.Context, id uuid.UUID, data []byte, mimeType string) (*Session, error)
	OpenImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error)
	Identify(ctx context.Context, id uuid.UUID) (*Session, error)
	Select(ctx context.Context, id uuid.UUID, index int) (*Session, error)
	Reset(ctx context.Context, id uuid.UUID) (*Session, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// Config bounds the identification domain.
type Config struct {
	// CredentialsSet reports whether the identification service key is
	// configured. Checked at identify time, not at startup.
	CredentialsSet bool
	MaxImageBytes  int64
	GeoTimeout     time.Duration
	DefaultLocale  Locale
}

type service struct {
	cfg      Config
	client   Identifier
	care     CareSource
	wiki     Encyclopedia
	geo      GeoProbe
	images   ImageStorage
	sessions SessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewService wires up the identification domain.
func NewService(cfg Config, client Identifier, care CareSource, wiki Encyclopedia, geo GeoProbe, images ImageStorage, sessions SessionStore, logger *slog.Logger) Service {
	return &service{
		cfg:      cfg,
		client:   client,
		care:     care,
		wiki:     wiki,
		geo:      geo,
		images:   images,
		sessions: sessions,
		logger:   logger.With("component", "identify.service"),
		now:      time.Now,
	}
}

func (s *service) CreateSession(ctx context.Context, locale Locale, geo *Geo, clientIP string) (*Session, error) {
	if locale == "" {
		locale = s.cfg.DefaultLocale
	}
	if _, ok := ParseLocale(string(locale)); !ok {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "unsupported locale", nil)
	}

	// Coordinates are captured exactly once per session. Client-supplied
	// values win; otherwise one bounded probe, unknown on any failure.
	if geo == nil && s.geo != nil {
		probeCtx, cancel := context.WithTimeout(ctx, s.cfg.GeoTimeout)
		located, err := s.geo.Locate(probeCtx, clientIP)
		cancel()
		if err != nil {
			s.logger.Debug("geo probe failed", "error", err)
		} else {
			geo = located
		}
	}

	now := s.now()
	sess := &Session{
		ID:        uuid.New(),
		Locale:    locale,
		State:     StateIdle,
		Geo:       geo,
		Selected:  -1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

func (s *service) GetSession(ctx context.Context, id uuid.UUID) (*Session, error) {
	return s.load(ctx, id)
}

func (s *service) SetLocale(ctx context.Context, id uuid.UUID, locale Locale) (*Session, error) {
	if _, ok := ParseLocale(string(locale)); !ok {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "unsupported locale", nil)
	}
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	sess.Locale = locale
	return sess, s.save(ctx, sess)
}

func (s *service) AttachImage(ctx context.Context, id uuid.UUID, data []byte, mimeType string) (*Session, error) {
	if len(data) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "image is empty", nil)
	}
	if s.cfg.MaxImageBytes > 0 && int64(len(data)) > s.cfg.MaxImageBytes {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "image exceeds the size limit", nil)
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "unsupported image type", nil)
	}

	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.releaseImage(ctx, sess)

	key := fmt.Sprintf("sessions/%s/%s", sess.ID, uuid.NewString())
	stored, err := s.images.Put(ctx, key, data, mimeType)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	sess.Image = &stored
	sess.State = StateCapturing
	return sess, s.save(ctx, sess)
}

func (s *service) OpenImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if sess.Image == nil {
		return nil, "", apperrors.Wrap(apperrors.CodeNotFound, "no image captured", nil)
	}
	reader, err := s.images.Get(ctx, sess.Image.Key)
	if err != nil {
		return nil, "", fmt.Errorf("open image: %w", err)
	}
	return reader, sess.Image.MimeType, nil
}

// Identify runs the identification chain. Fatal failures land the session
// in the errored state with a localized message; they are not returned as
// errors because they are part of the rendered flow.
func (s *service) Identify(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// Previous results are dropped before any network traffic so a
	// mid-flight observer never sees stale data.
	sess.ClearResults()
	sess.Generation++
	sess.State = StateIdentifying
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}

	if !s.cfg.CredentialsSet {
		return s.failIdentify(ctx, sess, "missingCredentials", nil)
	}
	if sess.Image == nil {
		return s.failIdentify(ctx, sess, "noImageSelected", nil)
	}

	data, err := s.readImage(ctx, sess.Image.Key)
	if err != nil {
		return s.failIdentify(ctx, sess, "identifyFailed", err)
	}

	suggestions, err := s.client.Identify(ctx, data, sess.Geo, sess.Locale)
	if err != nil {
		return s.failIdentify(ctx, sess, "identifyFailed", err)
	}

	sess.Suggestions = suggestions
	if len(suggestions) == 0 {
		sess.State = StateDisplaying
		return sess, s.save(ctx, sess)
	}

	// Auto-select the top suggestion and enrich it in the same action.
	sess.Selected = 0
	sess.State = StateEnriching
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.enrich(ctx, sess)
	return s.load(ctx, sess.ID)
}

func (s *service) Select(ctx context.Context, id uuid.UUID, index int) (*Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(sess.Suggestions) {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "suggestion index out of range", nil)
	}

	sess.ClearEnrichment()
	sess.Generation++
	sess.Selected = index
	sess.State = StateEnriching
	if err := s.save(ctx, sess); err != nil {
		return nil, err
	}
	s.enrich(ctx, sess)
	return s.load(ctx, sess.ID)
}

func (s *service) Reset(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.releaseImage(ctx, sess)
	sess.ClearResults()
	sess.Generation++
	sess.State = StateIdle
	return sess, s.save(ctx, sess)
}

func (s *service) DeleteSession(ctx context.Context, id uuid.UUID) error {
	sess, ok, err := s.sessions.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil
	}
	s.releaseImage(ctx, sess)
	return s.sessions.Delete(ctx, id)
}

// enrich populates care and summary for the selected suggestion. The two
// lookups are independent and run concurrently; each failure is tolerated
// and logged, never surfaced. Results apply only while the generation the
// fetch started with is still current.
func (s *service) enrich(ctx context.Context, sess *Session) {
	gen := sess.Generation
	name := sess.Suggestions[sess.Selected].ScientificName
	locale := sess.Locale

	var (
		care       *CareProfile
		summary    *Summary
		careStatus = FetchFailed
		wikiStatus = FetchFailed
	)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		speciesID, ok, err := s.care.FindSpeciesID(ctx, name)
		if err != nil {
			s.logger.Warn("species search failed", "name", name, "error", err)
			return
		}
		if !ok {
			careStatus = FetchEmpty
			return
		}
		profile, err := s.care.FetchCare(ctx, speciesID)
		if err != nil {
			s.logger.Warn("species detail failed", "speciesId", speciesID, "error", err)
			return
		}
		care = &profile
		careStatus = FetchOK
	}()
	go func() {
		defer wg.Done()
		result, ok, err := s.wiki.Summary(ctx, name, locale)
		if err != nil {
			s.logger.Warn("encyclopedia lookup failed", "name", name, "error", err)
			return
		}
		if !ok {
			wikiStatus = FetchEmpty
			return
		}
		summary = &result
		wikiStatus = FetchOK
	}()
	wg.Wait()

	s.applyEnrichment(ctx, sess.ID, gen, care, summary, careStatus, wikiStatus)
}

func (s *service) applyEnrichment(ctx context.Context, id uuid.UUID, gen uint64, care *CareProfile, summary *Summary, careStatus, wikiStatus FetchStatus) {
	sess, ok, err := s.sessions.Get(ctx, id)
	if err != nil || !ok {
		return
	}
	if sess.Generation != gen {
		s.logger.Info("stale enrichment discarded", "session", id, "generation", gen)
		return
	}
	sess.Care = care
	sess.Summary = summary
	sess.State = StateDisplaying
	if err := s.save(ctx, sess); err != nil {
		s.logger.Warn("enrichment save failed", "session", id, "error", err)
		return
	}
	s.logger.Info("enrichment finished", "session", id, "care", careStatus, "summary", wikiStatus)
}

func (s *service) failIdentify(ctx context.Context, sess *Session, messageKey string, cause error) (*Session, error) {
	if cause != nil {
		s.logger.Warn("identification failed", "session", sess.ID, "reason", messageKey, "error", cause)
	}
	sess.State = StateErrored
	sess.ErrorMessage = i18n.T(sess.Locale.Code(), messageKey)
	return sess, s.save(ctx, sess)
}

func (s *service) readImage(ctx context.Context, key string) ([]byte, error) {
	reader, err := s.images.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

func (s *service) releaseImage(ctx context.Context, sess *Session) {
	if sess.Image == nil {
		return
	}
	if err := s.images.Delete(ctx, sess.Image.Key); err != nil {
		s.logger.Warn("image release failed", "key", sess.Image.Key, "error", err)
	}
	sess.Image = nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*Session, error) {
	sess, ok, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !ok {
		return nil, apperrors.Wrap(apperrors.CodeNotFound, "session not found", nil)
	}
	return sess, nil
}

func (s *service) save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = s.now()
	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
