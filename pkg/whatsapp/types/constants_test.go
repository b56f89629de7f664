package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageTypeKnown(t *testing.T) {
	known := []MessageType{
		MessageTypeAudio, MessageTypeButton, MessageTypeContacts,
		MessageTypeDocument, MessageTypeImage, MessageTypeInteractive,
		MessageTypeLocation, MessageTypeOrder, MessageTypeReaction,
		MessageTypeSticker, MessageTypeSystem, MessageTypeText,
		MessageTypeVideo, MessageTypeUnknown,
	}
	for _, mt := range known {
		assert.True(t, mt.Known(), "expected %q to be known", mt)
	}

	assert.False(t, MessageType("carousel").Known())
	assert.False(t, MessageType("").Known())
	assert.False(t, MessageTypeTemplate.Known(), "template is outbound-only")
}
