package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

const instagramBaseURL = "https://graph.instagram.com"

// InstagramPublisher posts through the Instagram Graph API: create a media
// container, then publish it.
type InstagramPublisher struct {
	client  *http.Client
	baseURL string
	version string
}

type InstagramOption func(*InstagramPublisher)

func WithInstagramBaseURL(u string) InstagramOption {
	return func(p *InstagramPublisher) { p.baseURL = strings.TrimRight(u, "/") }
}

func WithInstagramHTTPClient(c *http.Client) InstagramOption {
	return func(p *InstagramPublisher) { p.client = c }
}

func NewInstagramPublisher(version string, opts ...InstagramOption) *InstagramPublisher {
	p := &InstagramPublisher{client: defaultHTTPClient(), baseURL: instagramBaseURL, version: version}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *InstagramPublisher) Platform() string {
	return models.PlatformInstagram
}

func (p *InstagramPublisher) Publish(ctx context.Context, target Target, content Content) (*PublishedRef, error) {
	accessToken := target.Credentials.AccessToken
	if accessToken == "" {
		return nil, errors.New("instagram account has no access token")
	}
	if target.ExternalID == "" {
		return nil, errors.New("instagram account has no user id")
	}
	if len(content.MediaURLs) == 0 {
		return nil, errors.New("instagram requires at least one image or video")
	}

	var (
		containerID string
		err         error
	)
	if len(content.MediaURLs) > 1 {
		containerID, err = p.carouselContainer(ctx, target.ExternalID, content, accessToken)
	} else {
		payload := mediaPayload(content.MediaURLs[0], content.MediaType, accessToken)
		payload["caption"] = content.Text
		containerID, err = p.createContainer(ctx, target.ExternalID, payload)
	}
	if err != nil {
		return nil, err
	}

	mediaID, err := p.publishContainer(ctx, target.ExternalID, containerID, accessToken)
	if err != nil {
		return nil, err
	}

	return &PublishedRef{PlatformPostID: mediaID, URL: p.permalink(ctx, mediaID, accessToken)}, nil
}

func mediaPayload(mediaURL, mediaType, accessToken string) map[string]any {
	payload := map[string]any{"access_token": accessToken}
	if mediaType == models.MediaTypeVideo || isVideoURL(mediaURL) {
		payload["media_type"] = "REELS"
		payload["video_url"] = mediaURL
	} else {
		payload["image_url"] = mediaURL
	}
	return payload
}

func isVideoURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasSuffix(lower, ".mp4") || strings.HasSuffix(lower, ".mov")
}

func (p *InstagramPublisher) carouselContainer(ctx context.Context, userID string, content Content, accessToken string) (string, error) {
	children := make([]string, 0, len(content.MediaURLs))
	for _, mediaURL := range content.MediaURLs {
		payload := mediaPayload(mediaURL, "", accessToken)
		payload["is_carousel_item"] = true
		if payload["media_type"] == "REELS" {
			payload["media_type"] = "VIDEO"
		}

		id, err := p.createContainer(ctx, userID, payload)
		if err != nil {
			return "", err
		}
		children = append(children, id)
	}

	return p.createContainer(ctx, userID, map[string]any{
		"media_type":   "CAROUSEL",
		"caption":      content.Text,
		"children":     children,
		"access_token": accessToken,
	})
}

func (p *InstagramPublisher) createContainer(ctx context.Context, userID string, payload map[string]any) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/media", p.baseURL, p.version, userID)
	return p.call(ctx, endpoint, payload)
}

func (p *InstagramPublisher) publishContainer(ctx context.Context, userID, containerID, accessToken string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/%s/media_publish", p.baseURL, p.version, userID)
	return p.call(ctx, endpoint, map[string]any{
		"creation_id":  containerID,
		"access_token": accessToken,
	})
}

func (p *InstagramPublisher) call(ctx context.Context, endpoint string, payload map[string]any) (string, error) {
	status, body, err := postJSON(ctx, p.client, endpoint, payload)
	if err != nil {
		return "", err
	}
	if status != http.StatusOK {
		return "", instagramError(status, body)
	}

	var result transfer.InstagramMediaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error parsing response: %w", err)
	}
	if result.ID == "" {
		return "", errors.New("no media ID returned from Instagram")
	}
	return result.ID, nil
}

// permalink is best effort; a missing link does not fail the publish.
func (p *InstagramPublisher) permalink(ctx context.Context, mediaID, accessToken string) string {
	endpoint := fmt.Sprintf("%s/%s/%s?fields=permalink&access_token=%s",
		p.baseURL, p.version, mediaID, url.QueryEscape(accessToken))
	status, body, err := getJSON(ctx, p.client, endpoint)
	if err != nil || status != http.StatusOK {
		return ""
	}
	var result transfer.InstagramMediaResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return ""
	}
	return result.Permalink
}

func instagramError(status int, body []byte) error {
	var apiErr transfer.InstagramErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("instagram: %s (code %d)", apiErr.Error.Message, apiErr.Error.Code)
	}
	return fmt.Errorf("unexpected status code from Instagram: %d", status)
}
