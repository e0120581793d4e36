package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Role names one partition of the catalog.
type Role string

const (
	RoleFaculty Role = "faculty"
	RoleStudent Role = "student"
	RoleShared  Role = "shared"
	RoleRequest Role = "request"
)

// Roles lists every partition in display order.
var Roles = []Role{RoleFaculty, RoleStudent, RoleShared, RoleRequest}

// StaticRoles are served as static JSON files next to the site.
var StaticRoles = []Role{RoleFaculty, RoleStudent}

// ParseRole validates a stored or user-supplied role name.
func ParseRole(value string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(value)))
	for _, known := range Roles {
		if r == known {
			return r, true
		}
	}
	return "", false
}

// Static reports whether entries of this role come from a static catalog.
func (r Role) Static() bool {
	return r == RoleFaculty || r == RoleStudent
}

// Text is a string field that tolerates non-string JSON scalars.
type Text string

// UnmarshalJSON accepts strings, numbers, booleans, null and string arrays.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var list FlexList
		if err := list.UnmarshalJSON(data); err != nil {
			return err
		}
		*t = Text(strings.Join(list.Items(), ", "))
	case '{':
		*t = ""
	case 't':
		*t = "true"
	case 'f':
		*t = ""
	default:
		*t = Text(formatNumber(string(data)))
	}
	return nil
}

// formatNumber renders a JSON number the way the site stringifies ids:
// 12.0 becomes "12", 2.5 stays "2.5". Unparseable input is kept verbatim.
func formatNumber(raw string) string {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return raw
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (t Text) String() string { return string(t) }

// FlexKind discriminates the two shapes a list field may arrive in.
type FlexKind int

const (
	FlexAbsent FlexKind = iota
	FlexString
	FlexSequence
)

// FlexList is a list field the remote source may send either as one
// comma-separated string or as an array of strings.
type FlexList struct {
	Kind FlexKind
	Raw  string
	Seq  []string
}

// RawString builds a FlexList from a single delimited string.
func RawString(s string) FlexList {
	return FlexList{Kind: FlexString, Raw: s}
}

// RawSequence builds a FlexList from an already split sequence.
func RawSequence(items ...string) FlexList {
	return FlexList{Kind: FlexSequence, Seq: items}
}

// UnmarshalJSON records which shape arrived. Unknown shapes decode as absent.
func (f *FlexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*f = FlexList{}
	if len(data) == 0 {
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = RawString(s)
	case '[':
		var raw []any
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		seq := make([]string, 0, len(raw))
		for _, v := range raw {
			switch val := v.(type) {
			case string:
				seq = append(seq, val)
			case nil:
			default:
				seq = append(seq, fmt.Sprint(val))
			}
		}
		*f = FlexList{Kind: FlexSequence, Seq: seq}
	case 'n', 't', 'f', '{':
		// null, booleans and objects carry no tags
	default:
		*f = RawString(string(data))
	}
	return nil
}

// Present mirrors truthiness of the raw value: an empty string is absent,
// an empty array is not.
func (f FlexList) Present() bool {
	switch f.Kind {
	case FlexString:
		return f.Raw != ""
	case FlexSequence:
		return true
	default:
		return false
	}
}

// Items resolves the list. Sequences are returned unchanged; strings are split
// on ASCII comma and the Japanese enumeration comma, trimmed, and empty
// segments dropped.
func (f FlexList) Items() []string {
	switch f.Kind {
	case FlexSequence:
		out := make([]string, len(f.Seq))
		copy(out, f.Seq)
		return out
	case FlexString:
		parts := strings.FieldsFunc(f.Raw, func(r rune) bool {
			return r == ',' || r == '、'
		})
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	default:
		return []string{}
	}
}

// Entry is one prompt or request as delivered by a catalog source.
type Entry struct {
	ID            Text     `json:"id"`
	Role          Role     `json:"role,omitempty"`
	TitleJP       Text     `json:"title_jp,omitempty"`
	TitleEN       Text     `json:"title_en,omitempty"`
	DescriptionJP Text     `json:"description_jp,omitempty"`
	DescriptionEN Text     `json:"description_en,omitempty"`
	PromptJP      Text     `json:"prompt_jp,omitempty"`
	PromptEN      Text     `json:"prompt_en,omitempty"`
	Prompt        Text     `json:"prompt,omitempty"`
	Category      Text     `json:"category,omitempty"`
	CategoryEN    Text     `json:"category_en,omitempty"`
	Keywords      FlexList `json:"keywords"`
	TagsJP        FlexList `json:"tags_jp"`
	TagsEN        FlexList `json:"tags_en"`
	Request       Text     `json:"request,omitempty"`
	Position      Text     `json:"position,omitempty"`
	Target        Text     `json:"target,omitempty"`
	Model         Text     `json:"model,omitempty"`
	Likes         int      `json:"likes"`
}

// UnmarshalJSON decodes an entry field by field. role and likes are derived
// downstream, so a malformed value in either is dropped instead of failing
// the whole payload.
func (e *Entry) UnmarshalJSON(data []byte) error {
	type plain Entry
	var raw struct {
		plain
		Role  json.RawMessage `json:"role"`
		Likes json.RawMessage `json:"likes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry(raw.plain)

	var role Text
	if err := role.UnmarshalJSON(raw.Role); err == nil {
		e.Role = Role(role)
	}
	e.Likes, _ = parseCount(raw.Likes)
	return nil
}

// MarshalJSON writes the resolved list, or null when absent.
func (f FlexList) MarshalJSON() ([]byte, error) {
	if f.Kind == FlexAbsent {
		return []byte("null"), nil
	}
	if f.Kind == FlexString {
		return json.Marshal(f.Raw)
	}
	return json.Marshal(f.Items())
}

// ResolvedCategory returns the localized key when set, else the generic one.
func (e Entry) ResolvedCategory() string {
	if e.CategoryEN != "" {
		return string(e.CategoryEN)
	}
	return string(e.Category)
}

// Title returns the display title for lang, falling back to the request text.
func (e Entry) Title(lang string) string {
	if lang == "en" {
		if e.TitleEN != "" {
			return string(e.TitleEN)
		}
		return string(e.Request)
	}
	if e.TitleJP != "" {
		return string(e.TitleJP)
	}
	return string(e.Request)
}

// Body returns the prompt text for lang, falling back to the unlocalized prompt.
func (e Entry) Body(lang string) string {
	if lang == "en" {
		if e.PromptEN != "" {
			return string(e.PromptEN)
		}
		return string(e.Prompt)
	}
	if e.PromptJP != "" {
		return string(e.PromptJP)
	}
	return string(e.Prompt)
}

// Field looks up a countable attribute by its wire name.
func (e Entry) Field(name string) string {
	switch name {
	case "id":
		return string(e.ID)
	case "role":
		return string(e.Role)
	case "category":
		return string(e.Category)
	case "category_en":
		return string(e.CategoryEN)
	case "position":
		return string(e.Position)
	case "target":
		return string(e.Target)
	case "model":
		return string(e.Model)
	case "request":
		return string(e.Request)
	case "title_jp":
		return string(e.TitleJP)
	case "title_en":
		return string(e.TitleEN)
	default:
		return ""
	}
}

// Clone returns a copy that shares no slices with e.
func (e Entry) Clone() Entry {
	e.Keywords.Seq = cloneStrings(e.Keywords.Seq)
	e.TagsJP.Seq = cloneStrings(e.TagsJP.Seq)
	e.TagsEN.Seq = cloneStrings(e.TagsEN.Seq)
	return e
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Likes maps entry ids to like counts.
type Likes map[string]int

// UnmarshalJSON tolerates numeric strings and floats; anything else is
// skipped and negative counts clamp to zero.
func (l *Likes) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Likes, len(raw))
	for id, v := range raw {
		n, ok := parseCount(v)
		if !ok {
			continue
		}
		out[id] = n
	}
	*l = out
	return nil
}

func parseCount(raw json.RawMessage) (int, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if f < 0 {
		return 0, true
	}
	return int(f), true
}

// Clone returns an independent copy. A nil map clones to an empty one.
func (l Likes) Clone() Likes {
	out := make(Likes, len(l))
	for k, v := range l {
		out[k] = v
	}
	return out
}

// Total sums every count.
func (l Likes) Total() int {
	total := 0
	for _, v := range l {
		total += v
	}
	return total
}

// Community is the combined dynamic payload.
type Community struct {
	Shared  []Entry `json:"shared"`
	Request []Entry `json:"request"`
	Likes   Likes   `json:"likes"`
}

// EmptyCommunity is the degraded form used when the payload is unavailable.
func EmptyCommunity() Community {
	return Community{Shared: []Entry{}, Request: []Entry{}, Likes: Likes{}}
}

// LikeRequest is the body sent when registering a like.
type LikeRequest struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Source Role   `json:"source"`
}
