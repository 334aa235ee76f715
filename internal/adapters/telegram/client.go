package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ticketlab/telegram-tickets-bot/internal/domain"
)

// Client talks to the Telegram Bot API over plain HTTP. Every call carries
// the client's timeout; transport and API-level failures both surface as
// errors marked domain.ErrDeliveryFailed.
type Client struct {
	apiBase string
	token   string
	httpc   *http.Client
}

func NewClient(apiBase, token string, timeout time.Duration) *Client {
	return &Client{
		apiBase: apiBase,
		token:   token,
		httpc:   &http.Client{Timeout: timeout},
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description"`
	Result      json.RawMessage `json:"result"`
}

func (c *Client) call(ctx context.Context, method string, payload interface{}) (json.RawMessage, error) {
	url := c.apiBase + "/bot" + c.token + "/" + method

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			return nil, errors.Wrap(err, "encode payload")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "telegram %s", method), domain.ErrDeliveryFailed)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "decode %s response", method), domain.ErrDeliveryFailed)
	}
	if !apiResp.OK {
		return nil, errors.Mark(
			errors.Newf("telegram %s: status %d: %s", method, resp.StatusCode, apiResp.Description),
			domain.ErrDeliveryFailed)
	}
	return apiResp.Result, nil
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	_, err := c.call(ctx, "sendMessage", map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	})
	return err
}

type BotInfo struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

func (c *Client) GetMe(ctx context.Context) (BotInfo, error) {
	result, err := c.call(ctx, "getMe", nil)
	if err != nil {
		return BotInfo{}, err
	}
	var info BotInfo
	if err := json.Unmarshal(result, &info); err != nil {
		return BotInfo{}, errors.Wrap(err, "decode bot info")
	}
	return info, nil
}

type WebhookInfo struct {
	URL            string `json:"url"`
	PendingUpdates int    `json:"pending_update_count"`
	LastErrorMsg   string `json:"last_error_message"`
}

func (c *Client) GetWebhookInfo(ctx context.Context) (WebhookInfo, error) {
	result, err := c.call(ctx, "getWebhookInfo", nil)
	if err != nil {
		return WebhookInfo{}, err
	}
	var info WebhookInfo
	if err := json.Unmarshal(result, &info); err != nil {
		return WebhookInfo{}, errors.Wrap(err, "decode webhook info")
	}
	return info, nil
}

func (c *Client) SetWebhook(ctx context.Context, webhookURL string) error {
	_, err := c.call(ctx, "setWebhook", map[string]interface{}{
		"url":                  webhookURL,
		"allowed_updates":      []string{"message"},
		"drop_pending_updates": true,
	})
	return err
}
