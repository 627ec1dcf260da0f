package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single source file.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// Position is a half-open source region in human-readable coordinates.
// Line and Col are 1-based; EndCol points one past the last column.
type Position struct {
	Line    int
	Col     int
	EndLine int
	EndCol  int
}

// At builds a single-line position starting at the given line and column.
func At(line, col int) Position {
	return Position{Line: line, Col: col, EndLine: line, EndCol: col}
}

// Span builds a position covering [line:col, endLine:endCol).
func Span(line, col, endLine, endCol int) Position {
	return Position{Line: line, Col: col, EndLine: endLine, EndCol: endCol}
}

// Covers reports whether the position's line range contains the given line.
func (p Position) Covers(line int) bool {
	return p.Line <= line && line <= p.EndLine
}

// IsZero reports whether the position carries no location at all.
func (p Position) IsZero() bool {
	return p == Position{}
}
