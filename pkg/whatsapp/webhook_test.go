package whatsapp

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"wacloud/pkg/whatsapp/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const verifyToken = "shared-secret"

func textDeliveryPayload() string {
	return `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "waba-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "15550000000", "phone_number_id": "111"},
					"contacts": [{"wa_id": "15550001111", "profile": {"name": "Jamie"}}],
					"messages": [{"from": "15550001111", "id": "wamid.in.1", "timestamp": "1700000000", "type": "text", "text": {"body": "hi"}}]
				}
			}]
		}]
	}`
}

func TestWebhookVerification(t *testing.T) {
	tests := []struct {
		name          string
		query         url.Values
		wantStatus    int
		wantChallenge string
	}{
		{
			name: "valid handshake echoes challenge",
			query: url.Values{
				"hub.mode":         {"subscribe"},
				"hub.verify_token": {verifyToken},
				"hub.challenge":    {"1158201444"},
			},
			wantStatus:    http.StatusOK,
			wantChallenge: "1158201444",
		},
		{
			name: "wrong token rejected",
			query: url.Values{
				"hub.mode":         {"subscribe"},
				"hub.verify_token": {"guess"},
				"hub.challenge":    {"1158201444"},
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name: "wrong mode rejected",
			query: url.Values{
				"hub.mode":         {"unsubscribe"},
				"hub.verify_token": {verifyToken},
				"hub.challenge":    {"1158201444"},
			},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewWebhookHandler(verifyToken, nil)

			req := httptest.NewRequest(http.MethodGet, "/webhook?"+tt.query.Encode(), nil)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantChallenge != "" {
				body, _ := io.ReadAll(rec.Body)
				assert.Equal(t, tt.wantChallenge, string(body))
			}
		})
	}
}

func TestWebhookDispatchesMessages(t *testing.T) {
	handler := NewWebhookHandler(verifyToken, nil)

	var gotMessage *types.Message
	var gotValue *types.ChangeValue
	handler.OnMessage(func(ctx context.Context, msg *types.Message, value *types.ChangeValue) error {
		gotMessage = msg
		gotValue = value
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textDeliveryPayload()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotMessage)
	assert.Equal(t, types.MessageTypeText, gotMessage.Type)
	assert.Equal(t, "hi", gotMessage.Text.Body)
	require.NotNil(t, gotValue)
	require.Len(t, gotValue.Contacts, 1)
	assert.Equal(t, "Jamie", gotValue.Contacts[0].Profile.Name)
}

func TestWebhookDispatchesStatuses(t *testing.T) {
	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "waba-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "15550000000", "phone_number_id": "111"},
					"statuses": [{"id": "wamid.out.1", "status": "read", "timestamp": 1700000100, "recipient_id": "15550001111"}]
				}
			}]
		}]
	}`

	handler := NewWebhookHandler(verifyToken, nil)

	var gotStatus *types.Status
	handler.OnStatus(func(ctx context.Context, status *types.Status, value *types.ChangeValue) error {
		gotStatus = status
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotStatus)
	assert.Equal(t, types.DeliveryStatusRead, gotStatus.Status)
	assert.Equal(t, "15550001111", gotStatus.RecipientID)
}

func TestWebhookDispatchesErrors(t *testing.T) {
	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "waba-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "15550000000", "phone_number_id": "111"},
					"errors": [{"code": 130429, "title": "Rate limit hit", "error_data": {"details": "too many messages"}}]
				}
			}]
		}]
	}`

	handler := NewWebhookHandler(verifyToken, nil)

	var gotErr *types.WebhookError
	handler.OnError(func(ctx context.Context, werr *types.WebhookError) error {
		gotErr = werr
		return nil
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotErr)
	assert.Equal(t, 130429, gotErr.Code)
	require.NotNil(t, gotErr.ErrorData)
	assert.Equal(t, "too many messages", gotErr.ErrorData.Details)
}

func TestWebhookRejectsInvalidPayloads(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{{{`},
		{name: "empty entry", payload: `{"object":"whatsapp_business_account","entry":[]}`},
		{
			name: "discriminator mismatch",
			payload: `{
				"object": "whatsapp_business_account",
				"entry": [{
					"id": "waba-1",
					"changes": [{
						"field": "messages",
						"value": {
							"messaging_product": "whatsapp",
							"metadata": {"display_phone_number": "15550000000", "phone_number_id": "111"},
							"messages": [{"from": "1", "id": "wamid.bad", "timestamp": 1700000000, "type": "text"}]
						}
					}]
				}]
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewWebhookHandler(verifyToken, nil)
			called := false
			handler.OnMessage(func(ctx context.Context, msg *types.Message, value *types.ChangeValue) error {
				called = true
				return nil
			})

			req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(tt.payload))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, called)
		})
	}
}

func TestWebhookCallbackErrorDoesNotFailDelivery(t *testing.T) {
	handler := NewWebhookHandler(verifyToken, nil)
	handler.OnMessage(func(ctx context.Context, msg *types.Message, value *types.ChangeValue) error {
		return assert.AnError
	})

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(textDeliveryPayload()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookNoOpChangeAccepted(t *testing.T) {
	payload := `{
		"object": "whatsapp_business_account",
		"entry": [{
			"id": "waba-1",
			"changes": [{
				"field": "messages",
				"value": {
					"messaging_product": "whatsapp",
					"metadata": {"display_phone_number": "15550000000", "phone_number_id": "111"}
				}
			}]
		}]
	}`

	handler := NewWebhookHandler(verifyToken, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookMethodNotAllowed(t *testing.T) {
	handler := NewWebhookHandler(verifyToken, nil)

	req := httptest.NewRequest(http.MethodPut, "/webhook", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestParseWebhook(t *testing.T) {
	hook, err := ParseWebhook([]byte(textDeliveryPayload()))
	require.NoError(t, err)
	require.Len(t, hook.Entry, 1)
	assert.Equal(t, "whatsapp_business_account", hook.Object)

	_, err = ParseWebhook([]byte(`{"object":"whatsapp_business_account","entry":[]}`))
	require.Error(t, err)
	var de *types.DecodeError
	assert.ErrorAs(t, err, &de)
}
