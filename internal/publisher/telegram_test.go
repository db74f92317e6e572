package publisher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTelegramPublisher_SendPhoto(t *testing.T) {
	var gotPath string
	var payload map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":42,"chat":{"id":-100,"username":"gracechapel"}}}`))
	}))
	defer srv.Close()

	p := NewTelegramPublisher("bot-token", srv.Client(), srv.URL)
	ref, err := p.Publish(context.Background(),
		Target{Platform: models.PlatformTelegram, Credentials: models.AccountCredentials{ChatID: "@gracechapel"}},
		Content{Title: "Prayer Night", Text: "Friday 7pm", MediaURLs: []string{"https://cdn.example/p.png"}})
	require.NoError(t, err)

	assert.Equal(t, "/botbot-token/sendPhoto", gotPath)
	assert.Equal(t, "@gracechapel", payload["chat_id"])
	assert.Equal(t, "Prayer Night\n\nFriday 7pm", payload["caption"])
	assert.Equal(t, "42", ref.PlatformPostID)
	assert.Equal(t, "https://t.me/gracechapel/42", ref.URL)
}

func TestTelegramPublisher_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Forbidden: bot is not a member of the channel chat"}`))
	}))
	defer srv.Close()

	p := NewTelegramPublisher("bot-token", srv.Client(), srv.URL)
	_, err := p.Publish(context.Background(), Target{ExternalID: "-100"}, Content{Text: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bot is not a member")
}

func TestTelegramPublisher_MissingChat(t *testing.T) {
	p := NewTelegramPublisher("bot-token", nil, "")
	_, err := p.Publish(context.Background(), Target{}, Content{Text: "hello"})
	assert.Error(t, err)
}
