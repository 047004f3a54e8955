// Package line wraps the official LINE Messaging API SDK behind the small
// surface this service needs: downloading message content and pushing text
// back to a user.
package line

import (
	"fmt"
	"io"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// Client is the concrete messaging client backed by the LINE SDK.
type Client struct {
	api  *messaging_api.MessagingApiAPI
	blob *messaging_api.MessagingApiBlobAPI
}

// NewClient creates a client authenticated with the channel access token.
func NewClient(channelToken string) (*Client, error) {
	api, err := messaging_api.NewMessagingApiAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("NewClient: messaging api: %w", err)
	}
	blob, err := messaging_api.NewMessagingApiBlobAPI(channelToken)
	if err != nil {
		return nil, fmt.Errorf("NewClient: blob api: %w", err)
	}
	return &Client{api: api, blob: blob}, nil
}

// FetchMessageContent downloads the bytes of an attachment (e.g. the slip
// image) by message ID.
func (c *Client) FetchMessageContent(messageID string) ([]byte, error) {
	resp, err := c.blob.GetMessageContent(messageID)
	if err != nil {
		return nil, fmt.Errorf("FetchMessageContent: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("FetchMessageContent: read body: %w", err)
	}
	return data, nil
}

// PushText pushes a single text message to the given user.
func (c *Client) PushText(userID, text string) error {
	_, err := c.api.PushMessage(&messaging_api.PushMessageRequest{
		To: userID,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	}, "")
	if err != nil {
		return fmt.Errorf("PushText: %w", err)
	}
	return nil
}
