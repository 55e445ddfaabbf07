package relay

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/DIMO-Network/line-webhook-relay/internal/clients/line"
	"github.com/DIMO-Network/line-webhook-relay/internal/services/relaysender"
)

// replyMessageTypes are the message types a relay target may return as a
// list to have them sent as the reply unchanged.
var replyMessageTypes = map[string]struct{}{
	"text":     {},
	"sticker":  {},
	"image":    {},
	"video":    {},
	"audio":    {},
	"location": {},
	"imagemap": {},
	"template": {},
	"flex":     {},
}

// TranslateResponse turns a relay target's response into reply messages.
// A JSON list of message objects is used verbatim; any other JSON is
// pretty printed and anything else is sent as text.
func TranslateResponse(resp *relaysender.Response) []line.Message {
	body := bytes.TrimSpace(resp.Body)
	if len(body) == 0 {
		return []line.Message{emptyResponse(resp.StatusCode)}
	}
	if !json.Valid(body) {
		return []line.Message{line.TextMessage(string(resp.Body))}
	}
	if messages, ok := asReplyMessages(body); ok {
		return messages
	}

	if body[0] == '"' {
		var text string
		if err := json.Unmarshal(body, &text); err == nil {
			if text == "" {
				return []line.Message{emptyResponse(resp.StatusCode)}
			}
			return []line.Message{line.TextMessage(text)}
		}
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err != nil {
		return []line.Message{line.TextMessage(string(resp.Body))}
	}
	return []line.Message{line.TextMessage(pretty.String())}
}

func emptyResponse(status int) line.Message {
	return line.TextMessage(fmt.Sprintf("(empty response: HTTP %d)", status))
}

func asReplyMessages(body []byte) ([]line.Message, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(body, &items); err != nil || len(items) == 0 {
		return nil, false
	}
	for _, item := range items {
		var typed struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(item, &typed); err != nil {
			return nil, false
		}
		if _, ok := replyMessageTypes[typed.Type]; !ok {
			return nil, false
		}
	}
	return items, true
}
