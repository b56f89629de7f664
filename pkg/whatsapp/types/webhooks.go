package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Timestamp is a unix-seconds value. The provider has shipped it both as a
// JSON number and as a numeric string, so decoding accepts either; it
// always marshals back as a number.
type Timestamp int64

// Time converts the timestamp to a time.Time.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return &DecodeError{Path: "timestamp", Message: fmt.Sprintf("expected unix seconds, got %s", string(data))}
	}
	*t = Timestamp(v)
	return nil
}

// Webhook is the top-level envelope the provider posts to a subscribed
// callback URL. Entry is modeled as a variable-length sequence: real
// deliveries can batch multiple entries even though older docs showed one.
type Webhook struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry groups the changes for one WhatsApp Business Account.
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change is one unit of notification, carrying either messages or statuses.
type Change struct {
	Value ChangeValue `json:"value"`
	Field ChangeField `json:"field"`
}

// ChangeValue holds the notification contents. Exactly one of Messages and
// Statuses is populated on real change events; a change with neither is a
// no-op and decodes without error.
type ChangeValue struct {
	MessagingProduct string         `json:"messaging_product"`
	Metadata         Metadata       `json:"metadata"`
	Contacts         []Contact      `json:"contacts,omitempty"`
	Errors           []WebhookError `json:"errors,omitempty"`
	Messages         []Message      `json:"messages,omitempty"`
	Statuses         []Status       `json:"statuses,omitempty"`
}

// Metadata identifies the business phone number the notification targets.
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// Contact identifies the customer who sent a message. A business replies
// using WaID.
type Contact struct {
	WaID    string  `json:"wa_id"`
	Profile Profile `json:"profile"`
}

type Profile struct {
	Name string `json:"name"`
}

// WebhookError is a provider-reported delivery error. These carry the
// provider's structured code/title detail, unlike REST call failures which
// only surface a status category.
type WebhookError struct {
	Code      int        `json:"code"`
	Title     string     `json:"title"`
	Message   string     `json:"message,omitempty"`
	ErrorData *ErrorData `json:"error_data,omitempty"`
}

type ErrorData struct {
	Details string `json:"details,omitempty"`
}

// ContactCard is a shareable contact record attached to a "contacts"
// message. Only the structured name is required.
type ContactCard struct {
	Name      ContactName      `json:"name"`
	Phones    []ContactPhone   `json:"phones,omitempty"`
	Addresses []ContactAddress `json:"addresses,omitempty"`
	Emails    []ContactEmail   `json:"emails,omitempty"`
	Org       *ContactOrg      `json:"org,omitempty"`
	URLs      []ContactURL     `json:"urls,omitempty"`
	Birthday  string           `json:"birthday,omitempty"`
}

type ContactName struct {
	FormattedName string `json:"formatted_name"`
	FirstName     string `json:"first_name,omitempty"`
	LastName      string `json:"last_name,omitempty"`
}

type ContactPhone struct {
	Phone string `json:"phone"`
	WaID  string `json:"wa_id,omitempty"`
	Type  string `json:"type,omitempty"`
}

type ContactAddress struct {
	Street  string `json:"street,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country,omitempty"`
	Type    string `json:"type,omitempty"`
}

type ContactEmail struct {
	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
}

type ContactOrg struct {
	Company string `json:"company"`
}

type ContactURL struct {
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// Location is a shared position; latitude and longitude are mandatory, the
// rest are presentation hints.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	Name      string  `json:"name,omitempty"`
	URL       string  `json:"url,omitempty"`
}

// Media references provider-hosted binary content. ID is an opaque handle
// exchanged via the media endpoints; SHA256 is supplied by the provider.
type Media struct {
	ID       string `json:"id"`
	MimeType string `json:"mime_type"`
	SHA256   string `json:"sha256"`
	Caption  string `json:"caption,omitempty"`
	Filename string `json:"filename,omitempty"`
	Voice    *bool  `json:"voice,omitempty"`
	Animated *bool  `json:"animated,omitempty"`
}

type Text struct {
	Body string `json:"body"`
}

// Button is the payload of a quick-reply button the customer tapped.
type Button struct {
	Payload string `json:"payload"`
	Text    string `json:"text"`
}

// Interactive carries a button or list reply selected by the customer.
type Interactive struct {
	Type InteractiveReply `json:"type"`
}

type InteractiveReply struct {
	ButtonReply *ButtonReply `json:"button_reply,omitempty"`
	ListReply   *ListReply   `json:"list_reply,omitempty"`
}

type ButtonReply struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type ListReply struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Reaction is an emoji reaction to an earlier message. An empty Emoji means
// the reaction was removed.
type Reaction struct {
	MessageID string `json:"message_id"`
	Emoji     string `json:"emoji,omitempty"`
}

// Order is placed from a product catalog.
type Order struct {
	CatalogID    string        `json:"catalog_id"`
	Text         string        `json:"text,omitempty"`
	ProductItems []ProductItem `json:"product_items"`
}

type ProductItem struct {
	ProductRetailerID string `json:"product_retailer_id"`
	Quantity          string `json:"quantity"`
	ItemPrice         string `json:"item_price"`
	Currency          string `json:"currency"`
}

// UnmarshalJSON accepts the provider's historical misspelled "catalod_id"
// key alongside the corrected "catalog_id".
func (o *Order) UnmarshalJSON(data []byte) error {
	type order Order
	var raw struct {
		order
		LegacyCatalogID string `json:"catalod_id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.order.CatalogID == "" {
		raw.order.CatalogID = raw.LegacyCatalogID
	}
	*o = Order(raw.order)
	return nil
}

// System notifies that a customer changed their phone number or profile
// information.
type System struct {
	Body     string     `json:"body"`
	Identity string     `json:"identity,omitempty"`
	NewWaID  string     `json:"new_wa_id,omitempty"`
	WaID     string     `json:"wa_id,omitempty"`
	Type     SystemType `json:"type"`
	Customer string     `json:"customer,omitempty"`
}

type SystemType struct {
	CustomerChangedNumber   bool `json:"customer_changed_number,omitempty"`
	CustomerIdentityChanged bool `json:"customer_identity_changed,omitempty"`
}

// Context is reply/forward metadata on an inbound message.
type Context struct {
	Forwarded           bool   `json:"forwarded,omitempty"`
	FrequentlyForwarded bool   `json:"frequently_forwarded,omitempty"`
	From                string `json:"from,omitempty"`
	ID                  string `json:"id,omitempty"`
}

// Referral is ad-click attribution: the customer reached the business by
// clicking an ad or post.
type Referral struct {
	SourceURL    string     `json:"source_url"`
	SourceType   SourceType `json:"source_type"`
	SourceID     string     `json:"source_id"`
	Headline     string     `json:"headline,omitempty"`
	Body         string     `json:"body,omitempty"`
	MediaType    string     `json:"media_type,omitempty"`
	ImageURL     string     `json:"image_url,omitempty"`
	VideoURL     string     `json:"video_url,omitempty"`
	ThumbnailURL string     `json:"thumbnail_url,omitempty"`
}

// Identity is a profile-change notice attached to a message.
type Identity struct {
	Acknowledged            bool   `json:"acknowledged,omitempty"`
	CustomerIdentityChanged bool   `json:"customer_identity_changed,omitempty"`
	CreatedTimestamp        string `json:"created_timestamp,omitempty"`
	Hash                    string `json:"hash,omitempty"`
}

// Message is the discriminated inbound entity. Type names the single
// variant field that carries the payload; Validate enforces that match.
type Message struct {
	From      string      `json:"from"`
	ID        string      `json:"id"`
	Timestamp Timestamp   `json:"timestamp"`
	Type      MessageType `json:"type"`

	Context  *Context       `json:"context,omitempty"`
	Referral *Referral      `json:"referral,omitempty"`
	Identity *Identity      `json:"identity,omitempty"`
	Errors   []WebhookError `json:"errors,omitempty"`

	Audio       *Media        `json:"audio,omitempty"`
	Button      *Button       `json:"button,omitempty"`
	Contacts    []ContactCard `json:"contacts,omitempty"`
	Document    *Media        `json:"document,omitempty"`
	Image       *Media        `json:"image,omitempty"`
	Interactive *Interactive  `json:"interactive,omitempty"`
	Location    *Location     `json:"location,omitempty"`
	Order       *Order        `json:"order,omitempty"`
	Reaction    *Reaction     `json:"reaction,omitempty"`
	Sticker     *Media        `json:"sticker,omitempty"`
	System      *System       `json:"system,omitempty"`
	Text        *Text         `json:"text,omitempty"`
	Video       *Media        `json:"video,omitempty"`
}

// UnmarshalJSON normalizes unrecognized type tags to MessageTypeUnknown so
// provider schema additions keep decoding. Order payloads that carry their
// fields flat on the message (an older documented shape, where "text" is
// the order note rather than a text payload) are folded into Order.
func (m *Message) UnmarshalJSON(data []byte) error {
	type message Message

	var head struct {
		Type            MessageType     `json:"type"`
		Order           json.RawMessage `json:"order"`
		CatalogID       json.RawMessage `json:"catalog_id"`
		LegacyCatalogID json.RawMessage `json:"catalod_id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return err
	}

	if head.Type == MessageTypeOrder && len(head.Order) == 0 &&
		(len(head.CatalogID) > 0 || len(head.LegacyCatalogID) > 0) {
		var flat struct {
			message
			Text            string        `json:"text"`
			CatalogID       string        `json:"catalog_id"`
			LegacyCatalogID string        `json:"catalod_id"`
			ProductItems    []ProductItem `json:"product_items"`
		}
		if err := json.Unmarshal(data, &flat); err != nil {
			return err
		}
		if flat.CatalogID == "" {
			flat.CatalogID = flat.LegacyCatalogID
		}
		flat.message.Order = &Order{
			CatalogID:    flat.CatalogID,
			Text:         flat.Text,
			ProductItems: flat.ProductItems,
		}
		*m = Message(flat.message)
		return nil
	}

	var raw message
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !raw.Type.Known() {
		raw.Type = MessageTypeUnknown
	}
	*m = Message(raw)
	return nil
}

// populatedVariants lists the variant payload fields that are present.
func (m *Message) populatedVariants() []MessageType {
	var tags []MessageType
	if m.Audio != nil {
		tags = append(tags, MessageTypeAudio)
	}
	if m.Button != nil {
		tags = append(tags, MessageTypeButton)
	}
	if len(m.Contacts) > 0 {
		tags = append(tags, MessageTypeContacts)
	}
	if m.Document != nil {
		tags = append(tags, MessageTypeDocument)
	}
	if m.Image != nil {
		tags = append(tags, MessageTypeImage)
	}
	if m.Interactive != nil {
		tags = append(tags, MessageTypeInteractive)
	}
	if m.Location != nil {
		tags = append(tags, MessageTypeLocation)
	}
	if m.Order != nil {
		tags = append(tags, MessageTypeOrder)
	}
	if m.Reaction != nil {
		tags = append(tags, MessageTypeReaction)
	}
	if m.Sticker != nil {
		tags = append(tags, MessageTypeSticker)
	}
	if m.System != nil {
		tags = append(tags, MessageTypeSystem)
	}
	if m.Text != nil {
		tags = append(tags, MessageTypeText)
	}
	if m.Video != nil {
		tags = append(tags, MessageTypeVideo)
	}
	return tags
}

// Validate enforces the discrimination invariant: the field named by Type
// must be populated and every other variant field must be absent. Unknown
// messages carry no variant field of their own, so they pass unchecked.
func (m *Message) Validate() error {
	if m.Type == MessageTypeUnknown {
		return nil
	}
	populated := m.populatedVariants()
	found := false
	for _, tag := range populated {
		if tag == m.Type {
			found = true
			continue
		}
		return &DecodeError{
			Path:    string(tag),
			Message: fmt.Sprintf("field %q conflicts with type %q", tag, m.Type),
		}
	}
	if !found {
		return &DecodeError{
			Path:    string(m.Type),
			Message: fmt.Sprintf("type %q requires a populated %q field", m.Type, m.Type),
		}
	}
	return nil
}

// Status is a point-in-time delivery notification for an outbound message.
// Durable tracking is the consumer's responsibility.
type Status struct {
	ID           string         `json:"id"`
	Status       DeliveryStatus `json:"status"`
	Timestamp    Timestamp      `json:"timestamp"`
	RecipientID  string         `json:"recipient_id"`
	Pricing      *Pricing       `json:"pricing,omitempty"`
	Conversation *Conversation  `json:"conversation,omitempty"`
}

// Pricing carries the billing category flags for the conversation.
type Pricing struct {
	Category     PricingCategory `json:"category"`
	PricingModel PricingModel    `json:"pricing_model,omitempty"`
}

type PricingCategory struct {
	BusinessInitiated  bool `json:"business_initiated,omitempty"`
	ReferralConversion bool `json:"referral_conversion,omitempty"`
	CustomerInitiated  bool `json:"customer_initiated,omitempty"`
}

// Conversation ties a status notification to a billing conversation.
type Conversation struct {
	ID     string             `json:"id"`
	Origin ConversationOrigin `json:"origin"`
}

type ConversationOrigin struct {
	Type ConversationOriginType `json:"type"`
	// Only present while the reported status is "sent".
	ExpirationTimestamp string `json:"expiration_timestamp,omitempty"`
}

type ConversationOriginType struct {
	BusinessInitiated    bool `json:"business_initiated,omitempty"`
	CustomerInitiated    bool `json:"customer_initiated,omitempty"`
	ReferralConversation bool `json:"referral_conversation,omitempty"`
}

// Validate walks the envelope and checks every message against the
// discrimination invariant, reporting the violating path.
func (w *Webhook) Validate() error {
	if len(w.Entry) == 0 {
		return &DecodeError{Path: "entry", Message: "must contain at least one entry"}
	}
	for i, entry := range w.Entry {
		for j, change := range entry.Changes {
			for k := range change.Value.Messages {
				if err := change.Value.Messages[k].Validate(); err != nil {
					path := fmt.Sprintf("entry[%d].changes[%d].value.messages[%d]", i, j, k)
					return prefixPath(path, err)
				}
			}
		}
	}
	return nil
}
