package trace

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// Format represents the output format for trace events.
type Format uint8

const (
	FormatAuto   Format = iota // by output file extension
	FormatText                 // human-readable text
	FormatNDJSON               // newline-delimited JSON
)

// ParseFormat converts a flag value to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return FormatAuto, nil
	case "text":
		return FormatText, nil
	case "ndjson", "json":
		return FormatNDJSON, nil
	default:
		return FormatAuto, fmt.Errorf("invalid trace format: %q (expected: auto|text|ndjson)", s)
	}
}

var processStart = time.Now()

// FormatEvent renders one event including the trailing newline.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return formatNDJSON(ev)
	}
	return formatText(ev)
}

type jsonEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	GID      uint64            `json:"gid,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

const jsonTimeLayout = "2006-01-02T15:04:05.000000Z07:00"

func formatNDJSON(ev *Event) []byte {
	data, err := json.Marshal(jsonEvent{
		Time: ev.Time.Format(jsonTimeLayout), Seq: ev.Seq,
		Kind: ev.Kind.String(), Scope: ev.Scope.String(),
		SpanID: ev.SpanID, ParentID: ev.ParentID, GID: ev.GID,
		Name: ev.Name, Detail: ev.Detail, Extra: ev.Extra,
	})
	if err != nil {
		data, _ = json.Marshal(map[string]string{"error": err.Error()})
	}
	return append(data, '\n')
}

var kindMarks = map[Kind]string{
	KindSpanBegin: "→ ",
	KindSpanEnd:   "← ",
	KindPoint:     "• ",
	KindHeartbeat: "♡ ",
}

// formatText: [elapsed] gID indent mark name (detail) {k=v, ...}
func formatText(ev *Event) []byte {
	elapsed := float64(ev.Time.Sub(processStart).Microseconds()) / 1000
	b := fmt.Appendf(nil, "[%9.3fms] g%-4d ", elapsed, ev.GID)
	for range max(int(ev.Scope)-1, 0) {
		b = append(b, "  "...)
	}
	b = append(b, kindMarks[ev.Kind]...)
	b = append(b, ev.Name...)
	if ev.Detail != "" {
		b = fmt.Appendf(b, " (%s)", ev.Detail)
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		b = fmt.Appendf(b, " {%s}", strings.Join(pairs, ", "))
	}
	return append(b, '\n')
}
