package types

// SendMessageRequest is the Graph /messages request body. Type names the
// single populated payload field, mirroring the inbound discriminator.
type SendMessageRequest struct {
	MessagingProduct string        `json:"messaging_product"`
	RecipientType    string        `json:"recipient_type,omitempty"`
	To               string        `json:"to"`
	Type             MessageType   `json:"type"`
	Text             *SendText     `json:"text,omitempty"`
	Image            *MediaSource  `json:"image,omitempty"`
	Audio            *MediaSource  `json:"audio,omitempty"`
	Video            *MediaSource  `json:"video,omitempty"`
	Document         *MediaSource  `json:"document,omitempty"`
	Sticker          *MediaSource  `json:"sticker,omitempty"`
	Location         *SendLocation `json:"location,omitempty"`
	Contacts         []ContactCard `json:"contacts,omitempty"`
	Reaction         *Reaction     `json:"reaction,omitempty"`
	Template         *Template     `json:"template,omitempty"`
	Context          *ReplyContext `json:"context,omitempty"`
}

type SendText struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url,omitempty"`
}

// MediaSource addresses outbound media either by a previously uploaded
// handle (ID) or by a public link; exactly one should be set.
type MediaSource struct {
	ID       string `json:"id,omitempty"`
	Link     string `json:"link,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
}

type SendLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Name      string  `json:"name,omitempty"`
	Address   string  `json:"address,omitempty"`
}

// Template references a pre-approved message template.
type Template struct {
	Name       string              `json:"name"`
	Language   TemplateLanguage    `json:"language"`
	Components []TemplateComponent `json:"components,omitempty"`
}

type TemplateLanguage struct {
	Code string `json:"code"`
}

type TemplateComponent struct {
	Type       string              `json:"type"`
	Parameters []TemplateParameter `json:"parameters,omitempty"`
}

type TemplateParameter struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// ReplyContext threads an outbound message onto an earlier one.
type ReplyContext struct {
	MessageID string `json:"message_id"`
}

// SendMessageResponse is the successful /messages response.
type SendMessageResponse struct {
	MessagingProduct string            `json:"messaging_product"`
	Contacts         []ResponseContact `json:"contacts,omitempty"`
	Messages         []MessageID       `json:"messages,omitempty"`
}

type ResponseContact struct {
	Input string `json:"input"`
	WaID  string `json:"wa_id"`
}

type MessageID struct {
	ID string `json:"id"`
}

// MarkAsReadRequest flags an inbound message as read, correlated by the
// webhook message ID.
type MarkAsReadRequest struct {
	MessagingProduct string `json:"messaging_product"`
	Status           string `json:"status"`
	MessageID        string `json:"message_id"`
}

// MediaInfo is the media-handle exchange response: a short-lived download
// URL for a media ID received via webhook.
type MediaInfo struct {
	ID               string `json:"id"`
	URL              string `json:"url"`
	MimeType         string `json:"mime_type"`
	SHA256           string `json:"sha256"`
	FileSize         int64  `json:"file_size"`
	MessagingProduct string `json:"messaging_product,omitempty"`
}
