package source

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// FileSet manages a collection of source files and resolves byte offsets to
// line/column positions. A FileSet is created fresh per compilation call and
// never shared across invocations.
type FileSet struct {
	files []File
	index map[string]FileID // path -> id
}

// NewFileSet creates a new empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{
		files: make([]File, 0, 1),
		index: make(map[string]FileID),
	}
}

// Add stores normalized content under path, builds the line index and
// returns the new FileID.
func (fs *FileSet) Add(path string, content []byte) FileID {
	lenFiles, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("file count overflow: %w", err))
	}
	id := FileID(lenFiles)
	fs.files = append(fs.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
	})
	fs.index[path] = id
	return id
}

// Load reads a file from disk, normalizes BOM/CRLF and calls Add.
func (fs *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	content = bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	return fs.Add(path, content), nil
}

// AddVirtual adds in-memory content (stdin, -c flag, tests).
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	return fs.Add(name, content)
}

// Get returns the file for the given ID.
func (fs *FileSet) Get(id FileID) *File {
	return &fs.files[id]
}

// Resolve maps a span to its start and end line/column positions.
func (fs *FileSet) Resolve(sp Span) (start, end LineCol) {
	f := fs.Get(sp.File)
	return f.Pos(sp.Start), f.Pos(sp.End)
}

// Pos maps a byte offset inside the file to a line/column position.
func (f *File) Pos(off uint32) LineCol {
	// first line whose start is > off, minus one
	i := sort.Search(len(f.LineIdx), func(i int) bool {
		return f.LineIdx[i] > off
	})
	line := uint32(i) // 1-based: i is index+1 of the containing line
	col := off - f.LineIdx[i-1] + 1
	return LineCol{Line: line, Col: col}
}

// Line returns the text of the 1-based line without the trailing newline.
func (f *File) Line(line uint32) []byte {
	if line == 0 || int(line) > len(f.LineIdx) {
		return nil
	}
	start := f.LineIdx[line-1]
	end := uint32(len(f.Content))
	if int(line) < len(f.LineIdx) {
		end = f.LineIdx[line] - 1 // drop '\n'
	}
	return f.Content[start:end]
}

// Snippet returns the source text around the span, clipped to radius bytes
// on each side and to the span's line. Used for error context strings.
func (f *File) Snippet(sp Span, radius uint32) string {
	start := sp.Start
	if start > uint32(len(f.Content)) {
		start = uint32(len(f.Content))
	}
	lo := uint32(0)
	if start > radius {
		lo = start - radius
	}
	hi := sp.End + radius
	if hi > uint32(len(f.Content)) {
		hi = uint32(len(f.Content))
	}
	// clip to the current line
	if i := bytes.LastIndexByte(f.Content[lo:start], '\n'); i >= 0 {
		lo += uint32(i) + 1
	}
	if i := bytes.IndexByte(f.Content[start:hi], '\n'); i >= 0 {
		hi = start + uint32(i)
	}
	return string(f.Content[lo:hi])
}

func buildLineIndex(content []byte) []uint32 {
	idx := make([]uint32, 1, 16)
	idx[0] = 0
	for i, b := range content {
		if b == '\n' {
			idx = append(idx, uint32(i)+1)
		}
	}
	return idx
}
