package gateway

import "encoding/json"

// Result is the uniform outcome of every gateway operation. Transport and
// HTTP failures are absorbed here instead of surfacing as errors, so
// callers never wrap gateway calls in error handling.
type Result struct {
	Success bool
	Status  int
	Data    interface{}
	Message string
	Err     string
}

func (r Result) dataMap() map[string]interface{} {
	m, _ := r.Data.(map[string]interface{})
	return m
}

// BusinessOK reports whether the payload carries a business-level failure
// inside a transport-level success. The backend may answer 200 with
// {"success": false, ...}; only an explicit false counts as failure.
func (r Result) BusinessOK() bool {
	if !r.Success {
		return false
	}
	if flag, ok := r.dataMap()["success"].(bool); ok && !flag {
		return false
	}
	return true
}

// BusinessSuccess reports an explicit success flag, either at the top of
// the payload or nested one level under data.
func (r Result) BusinessSuccess() bool {
	m := r.dataMap()
	if flag, ok := m["success"].(bool); ok && flag {
		return true
	}
	if nested, ok := m["data"].(map[string]interface{}); ok {
		if flag, ok := nested["success"].(bool); ok && flag {
			return true
		}
	}
	return false
}

// DataMessage returns the message field of the payload, checking the top
// level and the nested data envelope.
func (r Result) DataMessage() string {
	m := r.dataMap()
	if msg, ok := m["message"].(string); ok && msg != "" {
		return msg
	}
	if nested, ok := m["data"].(map[string]interface{}); ok {
		if msg, ok := nested["message"].(string); ok && msg != "" {
			return msg
		}
	}
	return ""
}

// UserPayload returns the user object of the payload, if any.
func (r Result) UserPayload() map[string]interface{} {
	if user, ok := r.dataMap()["user"].(map[string]interface{}); ok {
		return user
	}
	return nil
}

// ReplyText extracts the AI reply from the chat payload. The backend has
// shipped several shapes; the probe order matches what it has been
// observed to return: an OpenAI-style choices list, then estimate,
// response and message fields, then the raw payload itself.
func (r Result) ReplyText() string {
	if r.Data == nil {
		return ""
	}
	if s, ok := r.Data.(string); ok {
		return s
	}
	m := r.dataMap()
	if m == nil {
		return marshalText(r.Data)
	}
	if choices, ok := m["choices"].([]interface{}); ok && len(choices) > 0 {
		if choice, ok := choices[0].(map[string]interface{}); ok {
			if message, ok := choice["message"].(map[string]interface{}); ok {
				if content, ok := message["content"].(string); ok && content != "" {
					return content
				}
			}
		}
	}
	if estimate, ok := m["estimate"]; ok && truthy(estimate) {
		if s, ok := estimate.(string); ok {
			return s
		}
		return marshalText(estimate)
	}
	if response, ok := m["response"].(string); ok && response != "" {
		return response
	}
	if message, ok := m["message"].(string); ok && message != "" {
		return message
	}
	return marshalText(m)
}

// EstimateRows unwraps a list payload. Backend list endpoints disagree on
// the envelope: the array sits at data.estimates or data.data. Any other
// shape yields an empty list.
func (r Result) EstimateRows() []interface{} {
	m := r.dataMap()
	if m == nil {
		return nil
	}
	candidate := m["estimates"]
	if !truthy(candidate) {
		candidate = m["data"]
	}
	if rows, ok := candidate.([]interface{}); ok {
		return rows
	}
	return nil
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}

func marshalText(v interface{}) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(encoded)
}
