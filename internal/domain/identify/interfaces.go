package identify

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// Identifier submits an image to the identification service and returns
// ranked suggestions. The remote ordering is preserved, never recomputed.
type Identifier interface {
	Identify(ctx context.Context, image []byte, geo *Geo, locale Locale) ([]Suggestion, error)
}

// CareSource resolves a scientific name to a species id and fetches the
// care attributes for it.
type CareSource interface {
	FindSpeciesID(ctx context.Context, scientificName string) (int, bool, error)
	FetchCare(ctx context.Context, speciesID int) (CareProfile, error)
}

// Encyclopedia fetches a summary for a scientific name in the locale's
// content language. ok=false means "no article", not a failure.
type Encyclopedia interface {
	Summary(ctx context.Context, scientificName string, locale Locale) (Summary, bool, error)
}

// GeoProbe performs the one-shot best-effort coordinate lookup.
type GeoProbe interface {
	Locate(ctx context.Context, clientIP string) (*Geo, error)
}

// ImageStorage abstracts the preview blob store (MinIO or memory).
type ImageStorage interface {
	Put(ctx context.Context, key string, data []byte, mimeType string) (StoredImage, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// SessionStore keeps session state between requests.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, id uuid.UUID) (*Session, bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
