package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"time"
)

// ItemType is the kind of content a clipboard item holds.
type ItemType string

const (
	TypeText  ItemType = "text"
	TypeURL   ItemType = "url"
	TypeEmail ItemType = "email"
	TypePhone ItemType = "phone"
	TypeJSON  ItemType = "json"
	TypeXML   ItemType = "xml"
	TypeRTF   ItemType = "rtf"
	TypeCode  ItemType = "code"
	TypeImage ItemType = "image"
	TypeFile  ItemType = "file"
)

// TypeInfo holds the presentation attributes of an ItemType.
type TypeInfo struct {
	DisplayName string
	Icon        string
}

var typeInfo = map[ItemType]TypeInfo{
	TypeText:  {DisplayName: "Text", Icon: "¶"},
	TypeURL:   {DisplayName: "Link", Icon: "⎋"},
	TypeEmail: {DisplayName: "Email", Icon: "@"},
	TypePhone: {DisplayName: "Phone", Icon: "☎"},
	TypeJSON:  {DisplayName: "JSON", Icon: "{}"},
	TypeXML:   {DisplayName: "XML", Icon: "<>"},
	TypeRTF:   {DisplayName: "Rich Text", Icon: "R"},
	TypeCode:  {DisplayName: "Code", Icon: "λ"},
	TypeImage: {DisplayName: "Image", Icon: "▣"},
	TypeFile:  {DisplayName: "File", Icon: "▤"},
}

// AllTypes returns every known item type in display order.
func AllTypes() []ItemType {
	return []ItemType{
		TypeText, TypeURL, TypeEmail, TypePhone, TypeJSON,
		TypeXML, TypeRTF, TypeCode, TypeImage, TypeFile,
	}
}

// ParseItemType validates s as an ItemType.
func ParseItemType(s string) (ItemType, error) {
	t := ItemType(s)
	if _, ok := typeInfo[t]; !ok {
		return "", fmt.Errorf("unknown item type: %s", s)
	}
	return t, nil
}

// Info returns the presentation attributes for t. Unknown types fall back
// to the text entry.
func (t ItemType) Info() TypeInfo {
	if info, ok := typeInfo[t]; ok {
		return info
	}
	return typeInfo[TypeText]
}

// IsTextual reports whether the content of t is human-readable text.
func (t ItemType) IsTextual() bool {
	return t != TypeImage && t != TypeFile
}

// Item is one captured clipboard entry.
type Item struct {
	// ID is a unique, immutable identifier. It is the merge key on import.
	ID string `json:"id"`

	// Content is the payload. Images are stored base64-encoded, files as
	// their local path.
	Content string `json:"content"`

	// Timestamp is the capture time.
	Timestamp time.Time `json:"timestamp"`

	Type ItemType `json:"type"`

	SourceApp           string `json:"sourceApp"`
	SourceAppIdentifier string `json:"sourceAppBundleIdentifier,omitempty"`

	// FileSize is a human-readable size, set for images and files only.
	FileSize string `json:"fileSize,omitempty"`

	IsFavorite  bool     `json:"isFavorite"`
	Tags        []string `json:"tags"`
	CustomTitle string   `json:"customTitle,omitempty"`

	UsageCount   int        `json:"usageCount"`
	LastUsedDate *time.Time `json:"lastUsedDate,omitempty"`
}

// ContentEqual reports whether two items carry the same content and type.
// Identity and metadata are ignored.
func (it *Item) ContentEqual(other *Item) bool {
	if it == nil || other == nil {
		return it == other
	}
	return it.Type == other.Type && it.Content == other.Content
}

// HasTag reports whether tag is attached to the item.
func (it *Item) HasTag(tag string) bool {
	return slices.Contains(it.Tags, tag)
}

// Clone returns a deep copy of the item.
func (it *Item) Clone() *Item {
	c := *it
	c.Tags = slices.Clone(it.Tags)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if it.LastUsedDate != nil {
		t := *it.LastUsedDate
		c.LastUsedDate = &t
	}
	return &c
}

// Validate reports whether the item can be held in a history list: it
// needs an id and a known type.
func (it *Item) Validate() error {
	if it.ID == "" {
		return errors.New("item has no id")
	}
	if _, err := ParseItemType(string(it.Type)); err != nil {
		return err
	}
	return nil
}

// Sanitize returns items without entries that fail Validate and without
// later repeats of an id, along with how many were dropped.
func Sanitize(items []*Item) ([]*Item, int) {
	kept := make([]*Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it == nil || it.Validate() != nil || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		kept = append(kept, it)
	}
	return kept, len(items) - len(kept)
}

// referenceDate is the epoch of Apple's Foundation Date encoding. History
// files written by the macOS app store dates as seconds since this instant.
var referenceDate = time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)

// UnmarshalJSON decodes an item, defaulting the optional fields and
// accepting both RFC 3339 and Foundation reference-date timestamps.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	aux := struct {
		*plain
		Timestamp    json.RawMessage `json:"timestamp"`
		LastUsedDate json.RawMessage `json:"lastUsedDate"`
	}{plain: (*plain)(it)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	ts, err := decodeTime(aux.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid timestamp: %w", err)
	}
	if ts != nil {
		it.Timestamp = *ts
	}

	lastUsed, err := decodeTime(aux.LastUsedDate)
	if err != nil {
		return fmt.Errorf("invalid lastUsedDate: %w", err)
	}
	it.LastUsedDate = lastUsed

	if it.Tags == nil {
		it.Tags = []string{}
	}
	return nil
}

// decodeTime parses a JSON time value. Absent or null values yield nil.
func decodeTime(raw json.RawMessage) (*time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '"' {
		var t time.Time
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, err
		}
		return &t, nil
	}

	secs, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return nil, err
	}
	t := referenceDate.Add(time.Duration(secs * float64(time.Second))).Local()
	return &t, nil
}
