package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gracechapel/ministry-api/internal/models"
	"github.com/gracechapel/ministry-api/internal/transfer"
)

const telegramBaseURL = "https://api.telegram.org"

// TelegramPublisher posts to a channel through the Bot API.
type TelegramPublisher struct {
	client   *http.Client
	baseURL  string
	botToken string
}

func NewTelegramPublisher(botToken string, client *http.Client, baseURL string) *TelegramPublisher {
	if client == nil {
		client = defaultHTTPClient()
	}
	if baseURL == "" {
		baseURL = telegramBaseURL
	}
	return &TelegramPublisher{client: client, baseURL: strings.TrimRight(baseURL, "/"), botToken: botToken}
}

func (p *TelegramPublisher) Platform() string {
	return models.PlatformTelegram
}

func (p *TelegramPublisher) Publish(ctx context.Context, target Target, content Content) (*PublishedRef, error) {
	token := target.Credentials.AccessToken
	if token == "" {
		token = p.botToken
	}
	if token == "" {
		return nil, errors.New("telegram bot token is not configured")
	}

	chatID := target.Credentials.ChatID
	if chatID == "" {
		chatID = target.ExternalID
	}
	if chatID == "" {
		return nil, errors.New("telegram account has no chat id")
	}

	method, payload := telegramMessage(chatID, content)
	endpoint := fmt.Sprintf("%s/bot%s/%s", p.baseURL, token, method)

	_, body, err := postJSON(ctx, p.client, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var result transfer.TelegramResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("error parsing response: %w", err)
	}
	if !result.OK {
		return nil, fmt.Errorf("telegram: %s", result.Description)
	}

	ref := &PublishedRef{PlatformPostID: strconv.FormatInt(result.Result.MessageID, 10)}
	if username := result.Result.Chat.Username; username != "" {
		ref.URL = fmt.Sprintf("https://t.me/%s/%d", username, result.Result.MessageID)
	}
	return ref, nil
}

func telegramMessage(chatID string, content Content) (string, map[string]any) {
	text := content.Text
	if content.Title != "" {
		text = content.Title + "\n\n" + text
	}

	if len(content.MediaURLs) == 0 {
		return "sendMessage", map[string]any{"chat_id": chatID, "text": text}
	}

	media := content.MediaURLs[0]
	if content.MediaType == models.MediaTypeVideo || isVideoURL(media) {
		return "sendVideo", map[string]any{"chat_id": chatID, "video": media, "caption": text}
	}
	return "sendPhoto", map[string]any{"chat_id": chatID, "photo": media, "caption": text}
}
