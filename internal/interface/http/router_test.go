package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/golbarg/plantcare/internal/domain/identify"
	"github.com/golbarg/plantcare/internal/infra/config"
	apperrors "github.com/golbarg/plantcare/pkg/errors"
)

func TestRouter_CreateSession(t *testing.T) {
	sess := sampleSession(identify.LocaleFa)
	svc := &stubService{
		createFn: func(ctx context.Context, locale identify.Locale, geo *identify.Geo, clientIP string) (*identify.Session, error) {
			require.Equal(t, identify.LocaleFa, locale)
			require.NotNil(t, geo)
			require.Equal(t, 35.7, geo.Latitude)
			return sess, nil
		},
	}

	recorder := performJSON(t, http.MethodPost, "/api/v1/sessions", `{"locale":"fa","latitude":35.7,"longitude":51.4}`, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var view SessionView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	require.Equal(t, sess.ID.String(), view.ID)
	require.Equal(t, "fa", view.Locale)
	require.Equal(t, "rtl", view.Dir)
	require.NotEmpty(t, view.Labels["identify"])
}

func TestRouter_GetSessionRendersLocalizedPanels(t *testing.T) {
	sess := sampleSession(identify.LocaleAr)
	sess.State = identify.StateDisplaying
	sess.Suggestions = []identify.Suggestion{{ScientificName: "Ficus elastica", Probability: 0.8734}}
	sess.Selected = 0
	sess.Care = &identify.CareProfile{Watering: "Average", Sunlight: []string{"Part shade"}}
	sess.Summary = &identify.Summary{Extract: "extract text"}

	svc := &stubService{
		getFn: func(ctx context.Context, id uuid.UUID) (*identify.Session, error) {
			require.Equal(t, sess.ID, id)
			return sess, nil
		},
	}

	recorder := performJSON(t, http.MethodGet, "/api/v1/sessions/"+sess.ID.String(), "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var view SessionView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	require.Len(t, view.Results, 1)
	require.Equal(t, 87, view.Results[0].Percent)
	require.True(t, view.Results[0].Selected)
	require.NotNil(t, view.Care)
	require.Equal(t, "Average", view.Care.Watering.Value)
	require.Equal(t, "متوسط", view.Care.Watering.Label)
	require.Len(t, view.Care.Sunlight, 1)
	require.Equal(t, "ظل جزئي", view.Care.Sunlight[0].Label)
	require.NotNil(t, view.Summary)
	require.Equal(t, "extract text", view.Summary.Extract)
}

func TestRouter_SessionNotFound(t *testing.T) {
	svc := &stubService{
		getFn: func(ctx context.Context, id uuid.UUID) (*identify.Session, error) {
			return nil, apperrors.Wrap(apperrors.CodeNotFound, "session not found", nil)
		},
	}

	recorder := performJSON(t, http.MethodGet, "/api/v1/sessions/"+uuid.NewString(), "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusNotFound, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "not_found", errBody["error"]["code"])
}

func TestRouter_InvalidSessionID(t *testing.T) {
	recorder := performJSON(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", "", newRouterUnderTest(t, &stubService{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)

	errBody := decodeErrorBody(t, recorder.Body.Bytes())
	require.Equal(t, "invalid_request", errBody["error"]["code"])
}

func TestRouter_IdentifyRendersErroredState(t *testing.T) {
	sess := sampleSession(identify.LocaleFa)
	sess.State = identify.StateErrored
	sess.ErrorMessage = "کلید سرویس شناسایی تنظیم نشده است"

	svc := &stubService{
		identifyFn: func(ctx context.Context, id uuid.UUID) (*identify.Session, error) {
			return sess, nil
		},
	}

	recorder := performJSON(t, http.MethodPost, "/api/v1/sessions/"+sess.ID.String()+"/identify", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var view SessionView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	require.Equal(t, identify.StateErrored, view.State)
	require.NotNil(t, view.Error)
	require.Equal(t, sess.ErrorMessage, view.Error.Message)
	require.Nil(t, view.Care)
}

func TestRouter_UploadImageJSON(t *testing.T) {
	sess := sampleSession(identify.LocaleFa)
	sess.State = identify.StateCapturing
	sess.Image = &identify.StoredImage{Key: "k", MimeType: "image/jpeg", Size: 5}

	svc := &stubService{
		attachFn: func(ctx context.Context, id uuid.UUID, data []byte, mimeType string) (*identify.Session, error) {
			require.Equal(t, []byte("hello"), data)
			require.Equal(t, "image/jpeg", mimeType)
			return sess, nil
		},
	}

	body := `{"image":"data:image/jpeg;base64,aGVsbG8=","mimeType":"image/jpeg"}`
	recorder := performJSON(t, http.MethodPost, "/api/v1/sessions/"+sess.ID.String()+"/image", body, newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)

	var view SessionView
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &view))
	require.NotNil(t, view.Image)
	require.Equal(t, "/api/v1/sessions/"+sess.ID.String()+"/image", view.Image.URL)
}

func TestRouter_SelectRequiresIndex(t *testing.T) {
	recorder := performJSON(t, http.MethodPost, "/api/v1/sessions/"+uuid.NewString()+"/select", `{}`, newRouterUnderTest(t, &stubService{}))
	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestRouter_GetImageStreams(t *testing.T) {
	svc := &stubService{
		openImageFn: func(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
			return io.NopCloser(strings.NewReader("jpeg-bytes")), "image/jpeg", nil
		},
	}

	recorder := performJSON(t, http.MethodGet, "/api/v1/sessions/"+uuid.NewString()+"/image", "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "image/jpeg", recorder.Header().Get("Content-Type"))
	require.Equal(t, "jpeg-bytes", recorder.Body.String())
}

func TestRouter_DeleteSession(t *testing.T) {
	called := false
	svc := &stubService{
		deleteFn: func(ctx context.Context, id uuid.UUID) error {
			called = true
			return nil
		},
	}

	recorder := performJSON(t, http.MethodDelete, "/api/v1/sessions/"+uuid.NewString(), "", newRouterUnderTest(t, svc))
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.True(t, called)
}

func TestRouter_Health(t *testing.T) {
	recorder := performJSON(t, http.MethodGet, "/healthz", "", newRouterUnderTest(t, &stubService{}))
	require.Equal(t, http.StatusOK, recorder.Code)
}

func newRouterUnderTest(t *testing.T, svc identify.Service) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.HTTP.Address = ":0"
	cfg.HTTP.ReadTimeout = time.Second
	cfg.HTTP.WriteTimeout = time.Second
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewRouter(cfg, NewHandler(svc, logger))
	return server.Handler
}

func performJSON(t *testing.T, method, path, body string, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeErrorBody(t *testing.T, payload []byte) map[string]map[string]string {
	t.Helper()
	var body map[string]map[string]string
	require.NoError(t, json.Unmarshal(payload, &body))
	return body
}

func sampleSession(locale identify.Locale) *identify.Session {
	return &identify.Session{
		ID:       uuid.New(),
		Locale:   locale,
		State:    identify.StateIdle,
		Selected: -1,
	}
}

type stubService struct {
	createFn    func(ctx context.Context, locale identify.Locale, geo *identify.Geo, clientIP string) (*identify.Session, error)
	getFn       func(ctx context.Context, id uuid.UUID) (*identify.Session, error)
	setLocaleFn func(ctx context.Context, id uuid.UUID, locale identify.Locale) (*identify.Session, error)
	attachFn    func(ctx context.Context, id uuid.UUID, data []byte, mimeType string) (*identify.Session, error)
	openImageFn func(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error)
	identifyFn  func(ctx context.Context, id uuid.UUID) (*identify.Session, error)
	selectFn    func(ctx context.Context, id uuid.UUID, index int) (*identify.Session, error)
	resetFn     func(ctx context.Context, id uuid.UUID) (*identify.Session, error)
	deleteFn    func(ctx context.Context, id uuid.UUID) error
}

func (s *stubService) CreateSession(ctx context.Context, locale identify.Locale, geo *identify.Geo, clientIP string) (*identify.Session, error) {
	if s.createFn == nil {
		return sampleSession(locale), nil
	}
	return s.createFn(ctx, locale, geo, clientIP)
}

func (s *stubService) GetSession(ctx context.Context, id uuid.UUID) (*identify.Session, error) {
	if s.getFn == nil {
		return sampleSession(identify.LocaleFa), nil
	}
	return s.getFn(ctx, id)
}

func (s *stubService) SetLocale(ctx context.Context, id uuid.UUID, locale identify.Locale) (*identify.Session, error) {
	if s.setLocaleFn == nil {
		return sampleSession(locale), nil
	}
	return s.setLocaleFn(ctx, id, locale)
}

func (s *stubService) AttachImage(ctx context.Context, id uuid.UUID, data []byte, mimeType string) (*identify.Session, error) {
	if s.attachFn == nil {
		return sampleSession(identify.LocaleFa), nil
	}
	return s.attachFn(ctx, id, data, mimeType)
}

func (s *stubService) OpenImage(ctx context.Context, id uuid.UUID) (io.ReadCloser, string, error) {
	if s.openImageFn == nil {
		return nil, "", apperrors.Wrap(apperrors.CodeNotFound, "no image captured", nil)
	}
	return s.openImageFn(ctx, id)
}

func (s *stubService) Identify(ctx context.Context, id uuid.UUID) (*identify.Session, error) {
	if s.identifyFn == nil {
		return sampleSession(identify.LocaleFa), nil
	}
	return s.identifyFn(ctx, id)
}

func (s *stubService) Select(ctx context.Context, id uuid.UUID, index int) (*identify.Session, error) {
	if s.selectFn == nil {
		return sampleSession(identify.LocaleFa), nil
	}
	return s.selectFn(ctx, id, index)
}

func (s *stubService) Reset(ctx context.Context, id uuid.UUID) (*identify.Session, error) {
	if s.resetFn == nil {
		return sampleSession(identify.LocaleFa), nil
	}
	return s.resetFn(ctx, id)
}

func (s *stubService) DeleteSession(ctx context.Context, id uuid.UUID) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, id)
}

var _ identify.Service = (*stubService)(nil)
