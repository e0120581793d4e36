package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Line is one parsed zerolog JSON record.
type Line struct {
	Time    time.Time
	Level   string
	Message string
	Error   string
	Fields  map[string]string
	Raw     string
}

// Parse decodes a zerolog JSON line. Lines that are not JSON come back with
// only Raw and Message set.
func Parse(raw string) Line {
	line := Line{Raw: raw, Fields: map[string]string{}}
	var record map[string]any
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		line.Message = raw
		return line
	}
	for key, value := range record {
		switch key {
		case "time":
			if s, ok := value.(string); ok {
				if ts, err := time.Parse(time.RFC3339, s); err == nil {
					line.Time = ts
				}
			}
		case "level":
			line.Level, _ = value.(string)
		case "message":
			line.Message, _ = value.(string)
		case "error":
			line.Error = fmt.Sprint(value)
		default:
			line.Fields[key] = fmt.Sprint(value)
		}
	}
	return line
}

// Format renders a zerolog JSON line as "15:04:05 LEVEL message k=v ...".
// Fields are sorted; the error, when present, comes last.
func Format(raw string) string {
	line := Parse(raw)
	if line.Level == "" && line.Time.IsZero() {
		return line.Message
	}

	var b strings.Builder
	if !line.Time.IsZero() {
		b.WriteString(line.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if line.Level != "" {
		fmt.Fprintf(&b, "%-5s ", strings.ToUpper(line.Level))
	}
	b.WriteString(line.Message)

	keys := make([]string, 0, len(line.Fields))
	for k := range line.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%s", k, line.Fields[k])
	}
	if line.Error != "" {
		fmt.Fprintf(&b, " error=%q", line.Error)
	}
	return b.String()
}
