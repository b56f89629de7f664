package whatsapp

import (
	"context"
	"fmt"
	"io"
	"strings"

	"wacloud/pkg/rest"
	"wacloud/pkg/whatsapp/types"

	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL    = "https://graph.facebook.com"
	DefaultAPIVersion = "v18.0"
)

// ClientConfig configures the Cloud API client.
type ClientConfig struct {
	// BaseURL defaults to the Graph host; override it to point at a test
	// server.
	BaseURL       string
	APIVersion    string
	PhoneNumberID string
	AccessToken   string
	ErrorHandler  rest.ErrorHandler
	Logger        *logrus.Logger
}

// Client wraps the REST client with the Graph endpoint layout for one
// business phone number.
type Client struct {
	rest          *rest.Client
	graphBase     string
	phoneNumberID string
}

var (
	_ types.Sender       = (*Client)(nil)
	_ types.MediaFetcher = (*Client)(nil)
)

// NewClient builds a Cloud API client for cfg.PhoneNumberID.
func NewClient(cfg ClientConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	graphBase := fmt.Sprintf("%s/%s/", strings.TrimSuffix(base, "/"), version)

	rc := rest.NewClient(rest.Config{
		BaseURL:      graphBase + cfg.PhoneNumberID + "/",
		APIToken:     cfg.AccessToken,
		ErrorHandler: cfg.ErrorHandler,
		Logger:       cfg.Logger,
	})

	return &Client{
		rest:          rc,
		graphBase:     graphBase,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

func (c *Client) send(ctx context.Context, req *types.SendMessageRequest) (*types.SendMessageResponse, error) {
	req.MessagingProduct = types.MessagingProduct
	if req.RecipientType == "" {
		req.RecipientType = "individual"
	}

	resp, err := c.rest.Post(ctx, "messages", req, nil)
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Body) == 0 {
		// An error handler swallowed the failure without a substitute body.
		return &types.SendMessageResponse{}, nil
	}

	var out types.SendMessageResponse
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode send response: %w", err)
	}
	return &out, nil
}

// SendText sends a plain text message.
func (c *Client) SendText(ctx context.Context, to, body string, previewURL bool) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:   to,
		Type: types.MessageTypeText,
		Text: &types.SendText{Body: body, PreviewURL: previewURL},
	})
}

// SendImage sends an image by uploaded handle or public link.
func (c *Client) SendImage(ctx context.Context, to string, src types.MediaSource) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:    to,
		Type:  types.MessageTypeImage,
		Image: &src,
	})
}

// SendVideo sends a video by uploaded handle or public link.
func (c *Client) SendVideo(ctx context.Context, to string, src types.MediaSource) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:    to,
		Type:  types.MessageTypeVideo,
		Video: &src,
	})
}

// SendAudio sends an audio clip by uploaded handle or public link.
func (c *Client) SendAudio(ctx context.Context, to string, src types.MediaSource) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:    to,
		Type:  types.MessageTypeAudio,
		Audio: &src,
	})
}

// SendDocument sends a document by uploaded handle or public link.
func (c *Client) SendDocument(ctx context.Context, to string, src types.MediaSource) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:       to,
		Type:     types.MessageTypeDocument,
		Document: &src,
	})
}

// SendSticker sends a sticker by uploaded handle or public link.
func (c *Client) SendSticker(ctx context.Context, to string, src types.MediaSource) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:      to,
		Type:    types.MessageTypeSticker,
		Sticker: &src,
	})
}

// SendLocation sends a map pin.
func (c *Client) SendLocation(ctx context.Context, to string, loc types.SendLocation) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:       to,
		Type:     types.MessageTypeLocation,
		Location: &loc,
	})
}

// SendContacts shares one or more contact cards.
func (c *Client) SendContacts(ctx context.Context, to string, cards []types.ContactCard) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:       to,
		Type:     types.MessageTypeContacts,
		Contacts: cards,
	})
}

// SendReaction reacts to an earlier message; an empty emoji removes the
// reaction.
func (c *Client) SendReaction(ctx context.Context, to, messageID, emoji string) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:       to,
		Type:     types.MessageTypeReaction,
		Reaction: &types.Reaction{MessageID: messageID, Emoji: emoji},
	})
}

// SendTemplate sends a pre-approved template message.
func (c *Client) SendTemplate(ctx context.Context, to string, tmpl types.Template) (*types.SendMessageResponse, error) {
	return c.send(ctx, &types.SendMessageRequest{
		To:       to,
		Type:     types.MessageTypeTemplate,
		Template: &tmpl,
	})
}

// MarkAsRead flags an inbound message as read, correlated by its webhook
// message ID.
func (c *Client) MarkAsRead(ctx context.Context, messageID string) error {
	_, err := c.rest.Post(ctx, "messages", &types.MarkAsReadRequest{
		MessagingProduct: types.MessagingProduct,
		Status:           "read",
		MessageID:        messageID,
	}, nil)
	return err
}

// GetMediaURL exchanges a webhook media handle for a short-lived download
// URL. Media handles live outside the phone-number path, so this call
// overrides the base URL for exactly one request.
func (c *Client) GetMediaURL(ctx context.Context, mediaID string) (*types.MediaInfo, error) {
	resp, err := c.rest.Get(ctx, mediaID, nil, &rest.RequestOptions{BaseURL: c.graphBase})
	if err != nil {
		return nil, err
	}
	if resp == nil || len(resp.Body) == 0 {
		return nil, fmt.Errorf("empty media response for %s", mediaID)
	}

	var info types.MediaInfo
	if err := resp.Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode media response: %w", err)
	}
	return &info, nil
}

// DownloadMedia streams the binary content behind a media URL returned by
// GetMediaURL. The caller must close the returned reader.
func (c *Client) DownloadMedia(ctx context.Context, mediaURL string) (io.ReadCloser, error) {
	resp, err := c.rest.Get(ctx, mediaURL, nil, &rest.RequestOptions{
		ResponseType: rest.ResponseTypeStream,
	})
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.Stream == nil {
		return nil, fmt.Errorf("no media stream for %s", mediaURL)
	}
	return resp.Stream, nil
}
