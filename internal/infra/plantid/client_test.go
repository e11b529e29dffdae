package plantid

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/golbarg/plantcare/internal/domain/identify"
)

func TestIdentifySendsExpectedRequest(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "secret-key", r.Header.Get("Api-Key"))
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "common_names,url", r.URL.Query().Get("details"))
		require.Equal(t, "fa", r.URL.Query().Get("language"))

		var body struct {
			Images        []string `json:"images"`
			Latitude      *float64 `json:"latitude"`
			Longitude     *float64 `json:"longitude"`
			SimilarImages bool     `json:"similar_images"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Images, 1)
		require.Equal(t, base64.StdEncoding.EncodeToString(image), body.Images[0])
		require.NotNil(t, body.Latitude)
		require.Equal(t, 35.7, *body.Latitude)
		require.True(t, body.SimilarImages)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":{"classification":{"suggestions":[
			{"name":"Ficus elastica","probability":0.92,"similar_images":[{"url":"https://img.example/1.jpg"}]},
			{"name":"Ficus benjamina","probability":0.05}
		]}}}`))
	}))
	defer server.Close()

	client := NewClient("secret-key", server.URL, "common_names,url", time.Second)
	got, err := client.Identify(context.Background(), image, &identify.Geo{Latitude: 35.7, Longitude: 51.4}, identify.LocaleFa)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Ficus elastica", got[0].ScientificName)
	require.Equal(t, 0.92, got[0].Probability)
	require.Equal(t, []string{"https://img.example/1.jpg"}, got[0].SimilarImages)
	require.Equal(t, "Ficus benjamina", got[1].ScientificName)
}

func TestIdentifyOmitsGeoWhenUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotContains(t, body, "latitude")
		require.NotContains(t, body, "longitude")
		_, _ = w.Write([]byte(`{"result":{"classification":{"suggestions":[]}}}`))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, "", time.Second)
	got, err := client.Identify(context.Background(), []byte("img"), nil, identify.LocaleAr)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestIdentifyErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid api key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient("bad", server.URL, "", time.Second)
	_, err := client.Identify(context.Background(), []byte("img"), nil, identify.LocaleFa)
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=401")
}

func TestIdentifyMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client := NewClient("key", server.URL, "", time.Second)
	_, err := client.Identify(context.Background(), []byte("img"), nil, identify.LocaleFa)
	require.Error(t, err)
}

func TestStripDataURI(t *testing.T) {
	require.Equal(t, "aGVsbG8=", StripDataURI("data:image/jpeg;base64,aGVsbG8="))
	require.Equal(t, "aGVsbG8=", StripDataURI("aGVsbG8="))
	require.Equal(t, "aGVsbG8=", StripDataURI("  aGVsbG8=  "))
}
