package source

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves spans to positions.
// A path may be registered several times; every registration yields a new
// FileID and older versions stay readable.
type FileSet struct {
	files   []File
	index   map[string]FileID // path -> latest id
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// NewFileSetWithBase formats relative paths against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

func (fileSet *FileSet) SetBaseDir(dir string) { fileSet.baseDir = dir }

// BaseDir falls back to the working directory when none is set.
func (fileSet *FileSet) BaseDir() string {
	if fileSet.baseDir != "" {
		return fileSet.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// Len counts versions, not paths.
func (fileSet *FileSet) Len() int { return len(fileSet.files) }

// Add registers already normalised content under a fresh FileID, even when
// the path is known; the path index then points at the new version.
func (fileSet *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(fileSet.files))
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	id := FileID(n)
	f := File{
		ID:      id,
		Path:    normalizePath(path),
		Content: content,
		LineIdx: buildLineIndex(content),
		Hash:    sha256.Sum256(content),
		Flags:   flags,
		Prev:    id,
	}
	fileSet.files = append(fileSet.files, f)
	fileSet.index[f.Path] = id
	return id
}

// Rewrite registers content as a new version of the file prev and returns its id.
// The previous version is left untouched.
func (fileSet *FileSet) Rewrite(prev FileID, content []byte) FileID {
	old := fileSet.Get(prev)
	flags := (old.Flags &^ (FileHadBOM | FileNormalizedCRLF)) | FileRewritten
	id := fileSet.Add(old.Path, content, flags)
	fileSet.files[id].Prev = prev
	return id
}

// Load reads path, strips a UTF-8 BOM and folds CRLF before Add.
func (fileSet *FileSet) Load(path string) (FileID, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- caller-supplied source path
	if err != nil {
		return 0, err
	}
	var flags FileFlags
	content, bom := removeBOM(raw)
	if bom {
		flags |= FileHadBOM
	}
	content, crlf := normalizeCRLF(content)
	if crlf {
		flags |= FileNormalizedCRLF
	}
	return fileSet.Add(path, content, flags), nil
}

// AddVirtual adds a virtual file (stdin, test, or generated) with the FileVirtual flag.
func (fileSet *FileSet) AddVirtual(name string, content []byte) FileID {
	return fileSet.Add(name, content, FileVirtual)
}

// Get returns the file metadata for the given ID.
func (fileSet *FileSet) Get(id FileID) *File {
	return &fileSet.files[id]
}

// Has reports whether id names a registered version.
func (fileSet *FileSet) Has(id FileID) bool {
	return int(id) < len(fileSet.files)
}

// GetLatest returns the latest file ID for the given path, if it exists.
func (fileSet *FileSet) GetLatest(path string) (FileID, bool) {
	id, ok := fileSet.index[normalizePath(path)]
	return id, ok
}

// Latest returns the ids of the newest version of every path in registration order.
func (fileSet *FileSet) Latest() []FileID {
	out := make([]FileID, 0, len(fileSet.index))
	for i := range fileSet.files {
		f := &fileSet.files[i]
		if fileSet.index[f.Path] == f.ID {
			out = append(out, f.ID)
		}
	}
	return out
}

// Text returns the bytes covered by span as a string.
func (fileSet *FileSet) Text(span Span) string {
	f := fileSet.Get(span.File)
	if int(span.End) > len(f.Content) || span.Start > span.End {
		return ""
	}
	return string(f.Content[span.Start:span.End])
}

// Resolve converts a span into line and column positions.
func (fileSet *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fileSet.files[span.File]
	return toLineCol(f.LineIdx, span.Start), toLineCol(f.LineIdx, span.End)
}

// GetLine returns the 1-based line lineNum without its newline, or "" when
// out of range.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 {
		return ""
	}
	i := int(lineNum) - 1 // LineIdx[i] is the newline ending line i+1
	if i > len(f.LineIdx) {
		return ""
	}
	start := 0
	if i > 0 {
		start = int(f.LineIdx[i-1]) + 1
	}
	end := len(f.Content)
	if i < len(f.LineIdx) {
		end = int(f.LineIdx[i])
	}
	if start > end {
		return ""
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path for display. mode is one of absolute,
// relative, basename or auto; anything else returns the stored path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		abs, err := filepath.Abs(f.Path)
		if err != nil {
			return f.Path
		}
		return filepath.ToSlash(abs)
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		rel, err := relativePath(f.Path, baseDir)
		if err != nil {
			return f.Path
		}
		return rel
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		// короткие и относительные пути оставляем как есть
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
