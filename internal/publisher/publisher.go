// Package publisher adapts posts to individual social platforms.
package publisher

import (
	"context"
	"errors"
	"sync"

	"github.com/gracechapel/ministry-api/internal/models"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

// Target is a connected account with decrypted credentials.
type Target struct {
	AccountID   int64
	Platform    string
	AccountName string
	ExternalID  string
	Credentials models.AccountCredentials
}

// Content is what gets sent to a platform.
type Content struct {
	PostID    int64
	Title     string
	Text      string
	MediaURLs []string
	MediaType string
}

func ContentFromPost(post *models.SocialPost) Content {
	return Content{
		PostID:    post.ID,
		Title:     post.Title,
		Text:      post.Content,
		MediaURLs: []string(post.MediaURLs),
		MediaType: post.MediaType,
	}
}

type PublishedRef struct {
	PlatformPostID string
	URL            string
}

type PlatformPublisher interface {
	Platform() string
	Publish(ctx context.Context, target Target, content Content) (*PublishedRef, error)
}

// Registry resolves the publisher for a platform.
type Registry struct {
	mu         sync.RWMutex
	publishers map[string]PlatformPublisher
}

func NewRegistry(publishers ...PlatformPublisher) *Registry {
	r := &Registry{publishers: make(map[string]PlatformPublisher)}
	for _, p := range publishers {
		r.Register(p)
	}
	return r
}

// Register adds p, replacing any publisher for the same platform.
func (r *Registry) Register(p PlatformPublisher) {
	r.mu.Lock()
	r.publishers[p.Platform()] = p
	r.mu.Unlock()
}

func (r *Registry) Get(platform string) (PlatformPublisher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.publishers[platform]
	return p, ok
}

// Options selects the adapters for a deployment.
type Options struct {
	Live                  bool
	InstagramGraphVersion string
	GoogleClientID        string
	GoogleClientSecret    string
	TelegramBotToken      string
}

// Build returns simulated publishers for every platform, or in live mode
// only the platforms that have a real adapter.
func Build(opts Options) *Registry {
	if !opts.Live {
		return NewSimulatedRegistry(models.Platforms)
	}
	return NewRegistry(
		NewInstagramPublisher(opts.InstagramGraphVersion),
		NewYouTubePublisher(opts.GoogleClientID, opts.GoogleClientSecret),
		NewTelegramPublisher(opts.TelegramBotToken, nil, ""),
	)
}
