package publisher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/gracechapel/ministry-api/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// YouTubePublisher uploads the post's video with the account's OAuth token.
type YouTubePublisher struct {
	oauth      *oauth2.Config
	downloader *http.Client
}

func NewYouTubePublisher(clientID, clientSecret string) *YouTubePublisher {
	return &YouTubePublisher{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Scopes:       []string{youtube.YoutubeUploadScope},
			Endpoint:     google.Endpoint,
		},
		downloader: defaultHTTPClient(),
	}
}

func (p *YouTubePublisher) Platform() string {
	return models.PlatformYouTube
}

func (p *YouTubePublisher) Publish(ctx context.Context, target Target, content Content) (*PublishedRef, error) {
	videoURL := firstVideo(content)
	if videoURL == "" {
		return nil, errors.New("youtube requires a video")
	}

	creds := target.Credentials
	if creds.AccessToken == "" && creds.RefreshToken == "" {
		return nil, errors.New("youtube account has no oauth token")
	}

	token := &oauth2.Token{AccessToken: creds.AccessToken, RefreshToken: creds.RefreshToken}
	if creds.ExpiresAt != nil {
		token.Expiry = *creds.ExpiresAt
	}

	service, err := youtube.NewService(ctx, option.WithTokenSource(p.oauth.TokenSource(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("error creating YouTube service: %w", err)
	}

	tempFile, err := p.download(ctx, videoURL)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tempFile)

	file, err := os.Open(tempFile)
	if err != nil {
		return nil, fmt.Errorf("error opening video file: %w", err)
	}
	defer file.Close()

	title := content.Title
	if title == "" {
		title = truncate(content.Text, 100)
	}

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: content.Text,
			CategoryId:  "29",
		},
		Status: &youtube.VideoStatus{PrivacyStatus: "public"},
	}

	response, err := service.Videos.Insert([]string{"snippet", "status"}, video).Media(file).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("error uploading video: %w", err)
	}

	return &PublishedRef{
		PlatformPostID: response.Id,
		URL:            fmt.Sprintf("https://youtu.be/%s", response.Id),
	}, nil
}

func firstVideo(content Content) string {
	for _, u := range content.MediaURLs {
		if content.MediaType == models.MediaTypeVideo || isVideoURL(u) {
			return u
		}
	}
	return ""
}

func (p *YouTubePublisher) download(ctx context.Context, videoURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, videoURL, nil)
	if err != nil {
		return "", err
	}
	resp, err := p.downloader.Do(req)
	if err != nil {
		return "", fmt.Errorf("error downloading video: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected response status: %d", resp.StatusCode)
	}

	tempFile, err := os.CreateTemp("", "video-*.mp4")
	if err != nil {
		return "", fmt.Errorf("error creating temporary file: %w", err)
	}
	defer tempFile.Close()

	if _, err := io.Copy(tempFile, resp.Body); err != nil {
		os.Remove(tempFile.Name())
		return "", fmt.Errorf("error saving video to temporary file: %w", err)
	}
	return tempFile.Name(), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
