package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type graphStub struct {
	mu       sync.Mutex
	payloads []map[string]any
}

func (g *graphStub) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/v21.0/17841/media", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		g.mu.Lock()
		g.payloads = append(g.payloads, payload)
		n := len(g.payloads)
		g.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "container-" + string(rune('0'+n))})
	})
	mux.HandleFunc("/v21.0/17841/media_publish", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "media-99"})
	})
	mux.HandleFunc("/v21.0/media-99", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "media-99", "permalink": "https://www.instagram.com/p/abc/"})
	})
	return mux
}

func instagramTarget() Target {
	return Target{
		Platform:    models.PlatformInstagram,
		ExternalID:  "17841",
		Credentials: models.AccountCredentials{AccessToken: "ig-token"},
	}
}

func TestInstagramPublisher_SingleImage(t *testing.T) {
	stub := &graphStub{}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	p := NewInstagramPublisher("v21.0", WithInstagramBaseURL(srv.URL), WithInstagramHTTPClient(srv.Client()))
	ref, err := p.Publish(context.Background(), instagramTarget(), Content{
		Text:      "Join us this Sunday",
		MediaURLs: []string{"https://cdn.example/flyer.jpg"},
		MediaType: models.MediaTypeImage,
	})
	require.NoError(t, err)

	assert.Equal(t, "media-99", ref.PlatformPostID)
	assert.Equal(t, "https://www.instagram.com/p/abc/", ref.URL)
	require.Len(t, stub.payloads, 1)
	assert.Equal(t, "https://cdn.example/flyer.jpg", stub.payloads[0]["image_url"])
	assert.Equal(t, "Join us this Sunday", stub.payloads[0]["caption"])
}

func TestInstagramPublisher_Carousel(t *testing.T) {
	stub := &graphStub{}
	srv := httptest.NewServer(stub.handler(t))
	defer srv.Close()

	p := NewInstagramPublisher("v21.0", WithInstagramBaseURL(srv.URL), WithInstagramHTTPClient(srv.Client()))
	_, err := p.Publish(context.Background(), instagramTarget(), Content{
		Text:      "Baptism Sunday",
		MediaURLs: []string{"https://cdn.example/1.jpg", "https://cdn.example/2.mp4"},
		MediaType: models.MediaTypeCarousel,
	})
	require.NoError(t, err)

	require.Len(t, stub.payloads, 3)
	assert.Equal(t, true, stub.payloads[0]["is_carousel_item"])
	assert.Equal(t, "VIDEO", stub.payloads[1]["media_type"])
	assert.Equal(t, "CAROUSEL", stub.payloads[2]["media_type"])
	assert.Len(t, stub.payloads[2]["children"], 2)
}

func TestInstagramPublisher_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token","code":190}}`))
	}))
	defer srv.Close()

	p := NewInstagramPublisher("v21.0", WithInstagramBaseURL(srv.URL), WithInstagramHTTPClient(srv.Client()))
	_, err := p.Publish(context.Background(), instagramTarget(), Content{MediaURLs: []string{"https://cdn.example/a.jpg"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid OAuth access token")
}

func TestInstagramPublisher_RequiresMedia(t *testing.T) {
	p := NewInstagramPublisher("v21.0")
	_, err := p.Publish(context.Background(), instagramTarget(), Content{Text: "text only"})
	assert.Error(t, err)
}
