package models

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const (
	RoleUser = "user"
	RoleAI   = "ai"
)

// User is the authenticated session snapshot returned by the backend.
type User struct {
	Username string `json:"username"`
	Name     string `json:"name"`
}

// ChatMessage is one transcript entry. ID is set only on AI placeholders
// and correlates the entry with the request that will resolve it.
type ChatMessage struct {
	ID      string `json:"id,omitempty"`
	Role    string `json:"role"`
	Content string `json:"content"`
	Pending bool   `json:"-"`
}

// Part is a single component pick inside an estimate.
type Part struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Link  string  `json:"link,omitempty"`
}

// Categories is the fixed component list used for rendering and for
// part-by-part estimate comparison.
var Categories = []string{"cpu", "gpu", "mboard", "ram", "ssd", "cooler", "power", "case"}

// Estimate is a priced PC parts list plus a total price. On the wire it is
// a flat object mapping category keys to parts with a total_price field.
type Estimate struct {
	Title      string
	Parts      map[string]Part
	TotalPrice float64
}

func (e *Estimate) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(e.Parts)+2)
	for key, part := range e.Parts {
		flat[key] = part
	}
	flat["total_price"] = e.TotalPrice
	if e.Title != "" {
		flat["title"] = e.Title
	}
	return json.Marshal(flat)
}

func (e *Estimate) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	e.Parts = make(map[string]Part)
	for key, val := range raw {
		switch key {
		case "total_price":
			if err := json.Unmarshal(val, &e.TotalPrice); err != nil {
				e.TotalPrice = 0
			}
		case "title":
			if err := json.Unmarshal(val, &e.Title); err != nil {
				e.Title = ""
			}
		default:
			var part Part
			if err := json.Unmarshal(val, &part); err == nil {
				e.Parts[key] = part
			}
		}
	}
	return nil
}

// ParseEstimate interprets AI reply text as a structured estimate. The
// content counts as an estimate only when it is a JSON object carrying a
// cpu entry and a total_price; anything else is plain text and yields nil.
func ParseEstimate(content string) *Estimate {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil
	}
	cpu, ok := raw["cpu"]
	if !ok || isJSONNull(cpu) {
		return nil
	}
	if _, ok := raw["total_price"]; !ok {
		return nil
	}
	var est Estimate
	if err := json.Unmarshal([]byte(content), &est); err != nil {
		return nil
	}
	return &est
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// SameParts reports whether two estimates pick identically named parts
// across the fixed category list. Prices and links are ignored; a category
// missing from both sides counts as equal.
func SameParts(a, b *Estimate) bool {
	if a == nil || b == nil {
		return false
	}
	for _, category := range Categories {
		if a.Parts[category].Name != b.Parts[category].Name {
			return false
		}
	}
	return true
}

// SavedEstimate is a transient copy of an estimate record owned by the
// backend. Estimate is nil when the record's payload cannot be decoded.
type SavedEstimate struct {
	ID         string
	Title      string
	TotalPrice float64
	CreatedAt  string
	Username   string
	Estimate   *Estimate
}

// DecodeSavedEstimates converts a raw backend list into records. Rows that
// are not objects are dropped; titles fall back to a numbered default.
func DecodeSavedEstimates(rows []interface{}) []SavedEstimate {
	records := make([]SavedEstimate, 0, len(rows))
	for _, row := range rows {
		m, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		rec := decodeSavedEstimate(m)
		if rec.Title == "" {
			rec.Title = "견적 #" + strconv.Itoa(len(records)+1)
		}
		records = append(records, rec)
	}
	return records
}

func decodeSavedEstimate(m map[string]interface{}) SavedEstimate {
	rec := SavedEstimate{
		ID:        stringField(m, "id"),
		Title:     stringField(m, "title"),
		CreatedAt: stringField(m, "createdAt"),
		Username:  stringField(m, "username"),
	}
	if rec.Username == "" {
		if user, ok := m["user"].(map[string]interface{}); ok {
			rec.Username = stringField(user, "name")
		}
	}

	// The data payload arrives either as a serialized string or an object,
	// with the estimate at data.estimate or data.data.estimate.
	raw := m["data"]
	if s, ok := raw.(string); ok {
		var decoded interface{}
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			raw = decoded
		}
	}
	payload, _ := raw.(map[string]interface{})
	estValue := fieldOf(payload, "estimate")
	if estValue == nil {
		if nested, ok := fieldOf(payload, "data").(map[string]interface{}); ok {
			estValue = nested["estimate"]
		}
	}
	if estMap, ok := estValue.(map[string]interface{}); ok {
		rec.Estimate = decodeEstimate(estMap)
	}
	if rec.Title == "" {
		rec.Title = stringField(payload, "title")
	}

	if total, ok := numberField(m, "totalPrice"); ok {
		rec.TotalPrice = total
	} else if total, ok := numberField(payload, "totalPrice"); ok {
		rec.TotalPrice = total
	} else if total, ok := numberField(payload, "total_price"); ok {
		rec.TotalPrice = total
	} else if rec.Estimate != nil {
		rec.TotalPrice = rec.Estimate.TotalPrice
	}
	return rec
}

// decodeEstimate is lenient: saved records render and compare whatever
// parts they carry, the cpu/total_price validity rule applies only to
// fresh AI replies.
func decodeEstimate(m map[string]interface{}) *Estimate {
	est := &Estimate{Parts: make(map[string]Part)}
	for key, val := range m {
		switch key {
		case "total_price":
			if n, ok := val.(float64); ok {
				est.TotalPrice = n
			}
		case "title":
			if s, ok := val.(string); ok {
				est.Title = s
			}
		default:
			partMap, ok := val.(map[string]interface{})
			if !ok {
				continue
			}
			part := Part{Name: stringField(partMap, "name"), Link: stringField(partMap, "link")}
			if price, ok := numberField(partMap, "price"); ok {
				part.Price = price
			}
			est.Parts[key] = part
		}
	}
	return est
}

func fieldOf(m map[string]interface{}, key string) interface{} {
	if m == nil {
		return nil
	}
	return m[key]
}

func stringField(m map[string]interface{}, key string) string {
	switch v := fieldOf(m, key).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func numberField(m map[string]interface{}, key string) (float64, bool) {
	if n, ok := fieldOf(m, key).(float64); ok {
		return n, true
	}
	return 0, false
}
