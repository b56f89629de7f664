package types

import (
	"context"
	"io"
)

// Sender is the outbound Cloud API surface.
type Sender interface {
	SendText(ctx context.Context, to, body string, previewURL bool) (*SendMessageResponse, error)
	SendImage(ctx context.Context, to string, src MediaSource) (*SendMessageResponse, error)
	SendVideo(ctx context.Context, to string, src MediaSource) (*SendMessageResponse, error)
	SendAudio(ctx context.Context, to string, src MediaSource) (*SendMessageResponse, error)
	SendDocument(ctx context.Context, to string, src MediaSource) (*SendMessageResponse, error)
	SendSticker(ctx context.Context, to string, src MediaSource) (*SendMessageResponse, error)
	SendLocation(ctx context.Context, to string, loc SendLocation) (*SendMessageResponse, error)
	SendContacts(ctx context.Context, to string, cards []ContactCard) (*SendMessageResponse, error)
	SendReaction(ctx context.Context, to, messageID, emoji string) (*SendMessageResponse, error)
	SendTemplate(ctx context.Context, to string, tmpl Template) (*SendMessageResponse, error)
	MarkAsRead(ctx context.Context, messageID string) error
}

// MediaFetcher exchanges a webhook media handle for the hosted content.
type MediaFetcher interface {
	GetMediaURL(ctx context.Context, mediaID string) (*MediaInfo, error)
	DownloadMedia(ctx context.Context, mediaURL string) (io.ReadCloser, error)
}
