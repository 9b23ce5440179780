// Package source finds the comments of source files. It is the tokenizer
// side of docket: it knows where comments are, not what they mean.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnsupportedFile is returned for files no collaborator handles.
var ErrUnsupportedFile = errors.New("unsupported file type")

// Comment is one comment found in a source file, in source order.
type Comment struct {
	// Block is true for /* ... */ comments and false for line comments.
	Block bool
	// Text is the comment body with its delimiters removed.
	Text string
	// Start and End are byte offsets of the comment in the file.
	Start int
	End   int
	// Line is the 1-based line the comment starts on.
	Line int
}

// Collaborator reports the comments of one source file.
type Collaborator interface {
	Comments(ctx context.Context, path string, src []byte) ([]Comment, error)
}

// SyntaxError is returned when a file cannot be tokenized at all.
type SyntaxError struct {
	Path   string
	Line   int
	Column int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s:%d:%d: syntax error: %s", e.Path, e.Line, e.Column, e.Msg)
}

// File is a source file loaded into memory.
type File struct {
	Path    string
	Content []byte
}

// ReadFiles loads paths in order.
func ReadFiles(paths []string) ([]File, error) {
	files := make([]File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files = append(files, File{Path: p, Content: data})
	}
	return files, nil
}

// Language names accepted in the extension table.
const (
	LangJavaScript = "javascript"
	LangTypeScript = "typescript"
	LangTSX        = "tsx"
	LangGo         = "go"
)

// DefaultExtensions maps file extensions to languages.
func DefaultExtensions() map[string]string {
	return map[string]string{
		".js":  LangJavaScript,
		".mjs": LangJavaScript,
		".cjs": LangJavaScript,
		".jsx": LangJavaScript,
		".ts":  LangTypeScript,
		".mts": LangTypeScript,
		".cts": LangTypeScript,
		".tsx": LangTSX,
		".go":  LangGo,
	}
}

// Registry picks a collaborator by file extension.
type Registry struct {
	byExt             map[string]Collaborator
	mergeLineComments bool
}

// NewRegistry builds a registry from an extension → language table. With
// mergeLineComments, runs of line comments on consecutive lines are
// reported as one comment so "//" blocks can hold multi-line entries.
func NewRegistry(extensions map[string]string, mergeLineComments bool) (*Registry, error) {
	r := &Registry{byExt: make(map[string]Collaborator, len(extensions)), mergeLineComments: mergeLineComments}
	for ext, lang := range extensions {
		c, err := collaboratorFor(lang)
		if err != nil {
			return nil, fmt.Errorf("extension %s: %w", ext, err)
		}
		r.byExt[strings.ToLower(ext)] = c
	}
	return r, nil
}

func collaboratorFor(lang string) (Collaborator, error) {
	switch lang {
	case LangJavaScript, LangTypeScript, LangTSX:
		return NewTreeSitter(lang)
	case LangGo:
		return GoSource{}, nil
	}
	return nil, fmt.Errorf("unknown language %q", lang)
}

// Supports reports whether path has a registered extension.
func (r *Registry) Supports(path string) bool {
	_, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Comments implements Collaborator by delegating on the file extension.
func (r *Registry) Comments(ctx context.Context, path string, src []byte) ([]Comment, error) {
	c, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFile)
	}
	comments, err := c.Comments(ctx, path, src)
	if err != nil {
		return nil, err
	}
	if r.mergeLineComments {
		comments = MergeLineComments(comments, src)
	}
	return comments, nil
}

// MergeLineComments joins line comments that sit on consecutive lines with
// nothing but whitespace between them. Block comments are never merged.
func MergeLineComments(comments []Comment, src []byte) []Comment {
	out := make([]Comment, 0, len(comments))
	for _, c := range comments {
		if n := len(out); n > 0 && !c.Block && !out[n-1].Block && adjacent(src, out[n-1].End, c.Start) {
			prev := &out[n-1]
			prev.Text += "\n" + c.Text
			prev.End = c.End
			continue
		}
		out = append(out, c)
	}
	return out
}

func adjacent(src []byte, end, start int) bool {
	if end > start || start > len(src) {
		return false
	}
	gap := string(src[end:start])
	return strings.TrimSpace(gap) == "" && strings.Count(gap, "\n") == 1
}

// stripDelimiters removes the comment markers from raw comment text.
func stripDelimiters(raw string) (text string, block bool) {
	if body, ok := strings.CutPrefix(raw, "/*"); ok {
		return strings.TrimSuffix(body, "*/"), true
	}
	return strings.TrimPrefix(raw, "//"), false
}
