package slackevent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeURLVerification(t *testing.T) {
	raw := []byte(`{
		"token": "Jhj5dZrVaK7ZwHHjRyZWjbDl",
		"challenge": "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P",
		"type": "url_verification"
	}`)

	outer, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, &URLVerification{
		Token:     "Jhj5dZrVaK7ZwHHjRyZWjbDl",
		Challenge: "3eZbrw1aBm2rZgRNFdxV2595E9CY3gmdALWMmHkvFXO7tYXAYM8P",
	}, outer)
}

func TestDecodeEventCallback(t *testing.T) {
	raw := []byte(`{
		"token": "XXYYZZ",
		"team_id": "TXXXXXXXX",
		"api_app_id": "AXXXXXXXXX",
		"event": {
			"type": "pin_added",
			"event_ts": "1234567890.123456",
			"user": "UXXXXXXX1"
		},
		"type": "event_callback",
		"authed_users": ["UXXXXXXX1", "UXXXXXXX2"],
		"event_id": "Ev08MFMKH6",
		"event_time": 1234567890
	}`)

	outer, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, &EventCallback{
		Token:       "XXYYZZ",
		TeamID:      "TXXXXXXXX",
		APIAppID:    "AXXXXXXXXX",
		Event:       &PinAdded{},
		AuthedUsers: []string{"UXXXXXXX1", "UXXXXXXX2"},
		EventID:     "Ev08MFMKH6",
		EventTime:   1234567890,
	}, outer)
}

func TestDecodeAppHomeOpened(t *testing.T) {
	raw := []byte(`{"token":"gDimgAnOYefZ58jniKrv8BNA","team_id":"T010346TVPH","api_app_id":"A0103EF7Y3G","event":{"type":"app_home_opened","user":"U0103ED6A22","channel":"D0103EVPKTQ","tab":"messages"},"type":"event_callback","event_id":"Ev0101E9ELH2","event_time":1584339448}`)

	outer, err := Decode(raw)
	require.NoError(t, err)
	require.Equal(t, &EventCallback{
		Token:    "gDimgAnOYefZ58jniKrv8BNA",
		TeamID:   "T010346TVPH",
		APIAppID: "A0103EF7Y3G",
		Event: &AppHomeOpened{
			User:    "U0103ED6A22",
			Channel: "D0103EVPKTQ",
			Tab:     "messages",
		},
		EventID:   "Ev0101E9ELH2",
		EventTime: 1584339448,
	}, outer)
}

const messageFixture = `{
	"token":"gDimgAnOYefZ58jniKrv8BNA",
	"team_id":"T010346TVPH",
	"api_app_id":"A0103EF7Y3G",
	"event":{
		"type":"message",
		"client_msg_id":"a5899740-233f-4656-8469-5f88c5b8db27",
		"text":"hello?",
		"user":"U0103ED6A22",
		"ts":"1584339455.000200",
		"team":"T010346TVPH",
		"channel":"D0103EVPKTQ",
		"event_ts":"1584339455.000200",
		"channel_type":"im",
		"blocks":[{
			"type":"rich_text",
			"block_id":"XCSy",
			"elements":[{
				"type":"rich_text_section",
				"elements":[{"type":"text","text":"hello?"}]
			}]
		}]
	},
	"type":"event_callback",
	"event_id":"Ev0103PNN1L7",
	"event_time":1584339455,
	"authed_users":["U01018PDSNL"]
}`

func wantMessageCallback() *EventCallback {
	return &EventCallback{
		Token:    "gDimgAnOYefZ58jniKrv8BNA",
		TeamID:   "T010346TVPH",
		APIAppID: "A0103EF7Y3G",
		Event: &Message{
			ClientMsgID: "a5899740-233f-4656-8469-5f88c5b8db27",
			Text:        "hello?",
			User:        "U0103ED6A22",
			TS:          "1584339455.000200",
			Team:        "T010346TVPH",
			Channel:     "D0103EVPKTQ",
			EventTS:     "1584339455.000200",
			ChannelType: "im",
			Blocks: []MessageBlock{
				&RichTextBlock{
					BlockID: "XCSy",
					Elements: []RichTextElement{
						&RichTextSection{
							Elements: []RichTextSectionElement{
								&TextElement{Text: "hello?"},
							},
						},
					},
				},
			},
		},
		AuthedUsers: []string{"U01018PDSNL"},
		EventID:     "Ev0103PNN1L7",
		EventTime:   1584339455,
	}
}

func TestDecodeMessage(t *testing.T) {
	outer, err := Decode([]byte(messageFixture))
	require.NoError(t, err)
	require.Equal(t, wantMessageCallback(), outer)
}

func TestMessageRoundTrip(t *testing.T) {
	outer, err := Decode([]byte(messageFixture))
	require.NoError(t, err)

	encoded, err := json.Marshal(outer)
	require.NoError(t, err)

	again, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, wantMessageCallback(), again)
}

func TestDecodeUnknownInnerFailsOpen(t *testing.T) {
	raw := []byte(`{
		"token": "XXYYZZ",
		"team_id": "TXXXXXXXX",
		"api_app_id": "AXXXXXXXXX",
		"event": {"type": "channel_converted_to_private", "channel": "C123"},
		"type": "event_callback",
		"event_id": "Ev08MFMKH7",
		"event_time": 1234567890
	}`)

	outer, err := Decode(raw)
	require.NoError(t, err)

	callback, ok := outer.(*EventCallback)
	require.True(t, ok)
	unknown, ok := callback.Event.(*UnknownEvent)
	require.True(t, ok)
	assert.Equal(t, "channel_converted_to_private", unknown.Type)
	assert.JSONEq(t, `{"type": "channel_converted_to_private", "channel": "C123"}`, string(unknown.Raw))
}

func TestDecodeUnknownOuterFailsClosed(t *testing.T) {
	_, err := Decode([]byte(`{"type": "block_actions", "trigger_id": "123"}`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Error(), "block_actions")
}

func TestDecodeInvalidJSON(t *testing.T) {
	for _, raw := range []string{"", "{", "not json at all", `"a string"`} {
		_, err := Decode([]byte(raw))
		var decodeErr *DecodeError
		require.ErrorAs(t, err, &decodeErr, "input %q", raw)
	}
}

func TestDecodeUnknownBlockFailsOpen(t *testing.T) {
	raw := []byte(`{
		"token": "t",
		"team_id": "T1",
		"api_app_id": "A1",
		"event": {
			"type": "message",
			"text": "hi",
			"user": "U1",
			"channel": "D1",
			"channel_type": "im",
			"blocks": [{"type": "section", "text": {"type": "mrkdwn", "text": "hi"}}]
		},
		"type": "event_callback",
		"event_id": "Ev1",
		"event_time": 1
	}`)

	outer, err := Decode(raw)
	require.NoError(t, err)
	msg := outer.(*EventCallback).Event.(*Message)
	require.Len(t, msg.Blocks, 1)
	unknown, ok := msg.Blocks[0].(*UnknownBlock)
	require.True(t, ok)
	assert.Equal(t, "section", unknown.Type)
}
