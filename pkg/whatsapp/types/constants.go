package types

// MessageType discriminates the inbound message variants. The set mirrors
// what the Cloud API documents today; tags outside it decode as
// MessageTypeUnknown so new provider types never break decoding.
type MessageType string

const (
	MessageTypeAudio       MessageType = "audio"
	MessageTypeButton      MessageType = "button"
	MessageTypeContacts    MessageType = "contacts"
	MessageTypeDocument    MessageType = "document"
	MessageTypeImage       MessageType = "image"
	MessageTypeInteractive MessageType = "interactive"
	MessageTypeLocation    MessageType = "location"
	MessageTypeOrder       MessageType = "order"
	MessageTypeReaction    MessageType = "reaction"
	MessageTypeSticker     MessageType = "sticker"
	MessageTypeSystem      MessageType = "system"
	MessageTypeText        MessageType = "text"
	MessageTypeVideo       MessageType = "video"
	MessageTypeUnknown     MessageType = "unknown"
)

var knownMessageTypes = map[MessageType]bool{
	MessageTypeAudio:       true,
	MessageTypeButton:      true,
	MessageTypeContacts:    true,
	MessageTypeDocument:    true,
	MessageTypeImage:       true,
	MessageTypeInteractive: true,
	MessageTypeLocation:    true,
	MessageTypeOrder:       true,
	MessageTypeReaction:    true,
	MessageTypeSticker:     true,
	MessageTypeSystem:      true,
	MessageTypeText:        true,
	MessageTypeVideo:       true,
	MessageTypeUnknown:     true,
}

// Known reports whether t is one of the documented message types.
func (t MessageType) Known() bool {
	return knownMessageTypes[t]
}

// MessageTypeTemplate is outbound-only: templates are sent through the
// /messages endpoint but never delivered back through the webhook message
// union, so it is deliberately not part of the known inbound set.
const MessageTypeTemplate MessageType = "template"

// DeliveryStatus is the state reported by a status notification.
type DeliveryStatus string

const (
	DeliveryStatusSent      DeliveryStatus = "sent"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusRead      DeliveryStatus = "read"
)

// PricingModel is an open enum; the provider currently documents only CBP
// but other values must decode without error.
type PricingModel string

const PricingModelCBP PricingModel = "CBP"

// SourceType identifies where an ad-click referral originated.
type SourceType string

const (
	SourceTypeAd   SourceType = "ad"
	SourceTypePost SourceType = "post"
)

// ChangeField names the notification category of a webhook change.
type ChangeField string

const ChangeFieldMessages ChangeField = "messages"

// MessagingProduct is the constant product identifier the Cloud API uses
// in both webhook payloads and outbound requests.
const MessagingProduct = "whatsapp"
