package driver

import (
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"extgen/internal/diag"
	"extgen/internal/gen"
	"extgen/internal/project"
	"extgen/internal/source"
)

// Current schema version - increment when GenPayload format changes
const genCacheSchemaVersion uint16 = 2

// GenCache хранит результаты генерации на диске, ключ - digest исходников,
// шаблонов и опций генератора. Thread-safe for concurrent access.
type GenCache struct {
	mu  sync.RWMutex
	dir string
}

// GenPayload is the on-disk form of one generator run. Spans are stored as
// an index into the run's input files so they can be rebound to fresh FileIDs.
type GenPayload struct {
	Schema  uint16
	Units   []CachedUnit
	Diags   []CachedDiag
	Matched int
	Failed  int
	Skipped int
}

type CachedSpan struct {
	File  int
	Start uint32
	End   uint32
}

type CachedUnit struct {
	Name       string
	Text       string
	Enum       string
	Namespace  string
	OriginPath string
	Origin     CachedSpan
}

type CachedNote struct {
	Span CachedSpan
	Msg  string
}

type CachedDiag struct {
	Code     uint16
	Severity uint8
	Message  string
	Primary  CachedSpan
	Notes    []CachedNote
}

// OpenGenCache opens the cache rooted at dir, or at $XDG_CACHE_HOME/<app>
// (~/.cache/<app>) when dir is empty.
func OpenGenCache(dir, app string) (*GenCache, error) {
	if dir == "" {
		base := os.Getenv("XDG_CACHE_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, err
			}
			base = filepath.Join(home, ".cache")
		}
		dir = filepath.Join(base, app)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &GenCache{dir: dir}, nil
}

func (c *GenCache) pathFor(key project.Digest) string {
	return filepath.Join(c.dir, "units", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *GenCache) Put(key project.Digest, payload *GenPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	payload.Schema = genCacheSchemaVersion
	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(tmp, p)
}

// Get reads a payload. A missing entry or an entry written with another
// schema is a miss.
func (c *GenCache) Get(key project.Digest, out *GenPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != genCacheSchemaVersion {
		*out = GenPayload{}
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache.
func (c *GenCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// spanIndex maps FileIDs of a run to input positions and back.
type spanIndex struct {
	files []FileResult
	pos   map[source.FileID]int
}

func newSpanIndex(files []FileResult) spanIndex {
	pos := make(map[source.FileID]int, len(files))
	for i, f := range files {
		pos[f.FileID] = i
	}
	return spanIndex{files: files, pos: pos}
}

func (x spanIndex) pack(sp source.Span) CachedSpan {
	idx, ok := x.pos[sp.File]
	if !ok {
		idx = -1
	}
	return CachedSpan{File: idx, Start: sp.Start, End: sp.End}
}

func (x spanIndex) unpack(cs CachedSpan) (source.Span, bool) {
	if cs.File < 0 || cs.File >= len(x.files) {
		return source.Span{}, false
	}
	return source.Span{File: x.files[cs.File].FileID, Start: cs.Start, End: cs.End}, true
}

func packRun(x spanIndex, units []gen.GeneratedUnit, diags []diag.Diagnostic, out gen.Result) *GenPayload {
	p := &GenPayload{Matched: out.Matched, Failed: out.Failed, Skipped: out.Skipped}
	for _, u := range units {
		p.Units = append(p.Units, CachedUnit{
			Name:       u.Name,
			Text:       u.Text,
			Enum:       u.Enum,
			Namespace:  u.Namespace,
			OriginPath: u.OriginPath,
			Origin:     x.pack(u.Origin),
		})
	}
	for _, d := range diags {
		cd := CachedDiag{
			Code:     uint16(d.Code),
			Severity: uint8(d.Severity),
			Message:  d.Message,
			Primary:  x.pack(d.Primary),
		}
		for _, n := range d.Notes {
			cd.Notes = append(cd.Notes, CachedNote{Span: x.pack(n.Span), Msg: n.Msg})
		}
		p.Diags = append(p.Diags, cd)
	}
	return p
}

// unpackRun rebinds a payload to the current run. It fails when a span no
// longer maps onto an input file, which the caller treats as a miss.
func unpackRun(x spanIndex, p *GenPayload) ([]gen.GeneratedUnit, []diag.Diagnostic, bool) {
	units := make([]gen.GeneratedUnit, 0, len(p.Units))
	for _, cu := range p.Units {
		origin, ok := x.unpack(cu.Origin)
		if !ok {
			return nil, nil, false
		}
		units = append(units, gen.GeneratedUnit{
			Name:       cu.Name,
			Text:       cu.Text,
			Enum:       cu.Enum,
			Namespace:  cu.Namespace,
			Origin:     origin,
			OriginPath: cu.OriginPath,
		})
	}
	diags := make([]diag.Diagnostic, 0, len(p.Diags))
	for _, cd := range p.Diags {
		primary, ok := x.unpack(cd.Primary)
		if !ok {
			return nil, nil, false
		}
		d := diag.New(diag.Severity(cd.Severity), diag.Code(cd.Code), primary, cd.Message)
		for _, n := range cd.Notes {
			sp, ok := x.unpack(n.Span)
			if !ok {
				return nil, nil, false
			}
			d = d.WithNote(sp, n.Msg)
		}
		diags = append(diags, d)
	}
	return units, diags, true
}
