package http

import (
	"encoding/base64"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/golbarg/plantcare/internal/domain/identify"
	"github.com/golbarg/plantcare/internal/infra/plantid"
	apperrors "github.com/golbarg/plantcare/pkg/errors"
)

// Handler wires the HTTP transport to the identification domain.
type Handler struct {
	svc    identify.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc identify.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

type createSessionPayload struct {
	Locale    string   `json:"locale"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// CreateSession starts a new identification flow.
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionPayload
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
			return
		}
	}

	var geo *identify.Geo
	if req.Latitude != nil && req.Longitude != nil {
		geo = &identify.Geo{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	sess, err := h.svc.CreateSession(c.Request.Context(), identify.Locale(req.Locale), geo, c.ClientIP())
	if err != nil {
		h.abortDomainError(c, err, "create_failed")
		return
	}
	c.JSON(http.StatusCreated, buildView(sess))
}

// GetSession renders the current session state.
func (h *Handler) GetSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	sess, err := h.svc.GetSession(c.Request.Context(), id)
	if err != nil {
		h.abortDomainError(c, err, "fetch_failed")
		return
	}
	c.JSON(http.StatusOK, buildView(sess))
}

type localePayload struct {
	Locale string `json:"locale" binding:"required"`
}

// SetLocale switches the active language for a session.
func (h *Handler) SetLocale(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req localePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	sess, err := h.svc.SetLocale(c.Request.Context(), id, identify.Locale(req.Locale))
	if err != nil {
		h.abortDomainError(c, err, "locale_failed")
		return
	}
	c.JSON(http.StatusOK, buildView(sess))
}

type imagePayload struct {
	Image    string `json:"image" binding:"required"`
	MimeType string `json:"mimeType"`
}

// UploadImage captures or replaces the session image. Accepts either a
// multipart "image" file or a JSON body with a base64/data-URI payload.
func (h *Handler) UploadImage(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}

	data, mimeType, err := readImagePayload(c)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	sess, err := h.svc.AttachImage(c.Request.Context(), id, data, mimeType)
	if err != nil {
		h.abortDomainError(c, err, "upload_failed")
		return
	}
	c.JSON(http.StatusOK, buildView(sess))
}

func readImagePayload(c *gin.Context) ([]byte, string, error) {
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/") {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			return nil, "", err
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, "", err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return nil, "", err
		}
		return data, fileHeader.Header.Get("Content-Type"), nil
	}

	var req imagePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, "", err
	}
	data, err := base64.StdEncoding.DecodeString(plantid.StripDataURI(req.Image))
	if err != nil {
		return nil, "", err
	}
	return data, req.MimeType, nil
}

// GetImage streams the captured preview back to the client.
func (h *Handler) GetImage(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	reader, mimeType, err := h.svc.OpenImage(c.Request.Context(), id)
	if err != nil {
		h.abortDomainError(c, err, "fetch_failed")
		return
	}
	defer reader.Close()
	c.Header("Content-Type", mimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		h.logger.Warn("image stream interrupted", "session", id, "error", err)
	}
}

// Identify runs the identification chain and renders the resulting state,
// including the errored panel for fatal-to-the-action failures.
func (h *Handler) Identify(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	sess, err := h.svc.Identify(c.Request.Context(), id)
	if err != nil {
		h.abortDomainError(c, err, "identify_failed")
		return
	}
	c.JSON(http.StatusOK, buildView(sess))
}

type selectPayload struct {
	Index *int `json:"index" binding:"required"`
}

// Select re-enriches a different suggestion without re-identifying.
func (h *Handler) Select(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	var req selectPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	sess, err := h.svc.Select(c.Request.Context(), id, *req.Index)
	if err != nil {
		h.abortDomainError(c, err, "select_failed")
		return
	}
	c.JSON(http.StatusOK, buildView(sess))
}

// Reset clears the session back to idle, releasing the preview image.
func (h *Handler) Reset(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	sess, err := h.svc.Reset(c.Request.Context(), id)
	if err != nil {
		h.abortDomainError(c, err, "reset_failed")
		return
	}
	c.JSON(http.StatusOK, buildView(sess))
}

// DeleteSession tears the session down.
func (h *Handler) DeleteSession(c *gin.Context) {
	id, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteSession(c.Request.Context(), id); err != nil {
		h.abortDomainError(c, err, "delete_failed")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "invalid session id", err))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) abortDomainError(c *gin.Context, err error, fallbackCode string) {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, apperrors.CodeNotFound):
		status = http.StatusNotFound
		code = "not_found"
	}
	abortWithError(c, NewHTTPError(status, code, errMessage(err), err))
}
