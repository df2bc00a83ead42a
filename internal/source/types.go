package source

// FileID uniquely identifies a source file within a FileSet.
type FileID uint32

// File captures the content and line index of a single source text.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32 // byte offset of the start of each line, LineIdx[0] == 0
}

// LineCol is a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based, in bytes
}
