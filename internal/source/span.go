package source

import (
	"fmt"
)

// Span is a half-open byte range inside one file version.
type Span struct {
	File  FileID
	Start uint32 // в байтах включительно
	End   uint32 // в байтах не включительно
}

func (s Span) Empty() bool {
	return s.Start == s.End
}

func (s Span) Len() uint32 {
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// Contains reports whether other lies entirely inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}

func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		return s
	}
	if other.Start < s.Start {
		s.Start = other.Start
	}
	if other.End > s.End {
		s.End = other.End
	}
	return s
}

// Shift moves a span that starts at or after pivot by delta bytes and retargets
// it to file. Spans before pivot keep their offsets; a span straddling pivot
// only has its end moved. The zero span stays zero.
func (s Span) Shift(file FileID, pivot uint32, delta int64) Span {
	if s == (Span{}) {
		return s
	}
	out := Span{File: file, Start: s.Start, End: s.End}
	if delta == 0 {
		return out
	}
	if s.Start >= pivot {
		out.Start = shiftOffset(s.Start, delta)
	}
	if s.End >= pivot {
		out.End = shiftOffset(s.End, delta)
	}
	return out
}

func shiftOffset(off uint32, delta int64) uint32 {
	v := int64(off) + delta
	if v < 0 {
		return 0
	}
	return uint32(v)
}
