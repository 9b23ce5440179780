package source

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

const nodeComment = "comment"

// TreeSitter reports the comments of JavaScript and TypeScript files. A new
// tree-sitter parser is created per call, so one TreeSitter value may be
// shared.
type TreeSitter struct {
	lang *sitter.Language
	name string
}

// NewTreeSitter returns a collaborator for one of LangJavaScript,
// LangTypeScript or LangTSX.
func NewTreeSitter(lang string) (*TreeSitter, error) {
	var l *sitter.Language
	switch lang {
	case LangJavaScript:
		l = javascript.GetLanguage()
	case LangTypeScript:
		l = typescript.GetLanguage()
	case LangTSX:
		l = tsx.GetLanguage()
	default:
		return nil, fmt.Errorf("tree-sitter: unknown language %q", lang)
	}
	return &TreeSitter{lang: l, name: lang}, nil
}

func (t *TreeSitter) Comments(ctx context.Context, path string, src []byte) ([]Comment, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(t.lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%s: tree-sitter parse failed: %w", path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(path, root)
	}

	var comments []Comment
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == nodeComment {
			text, block := stripDelimiters(n.Content(src))
			comments = append(comments, Comment{
				Block: block,
				Text:  text,
				Start: int(n.StartByte()),
				End:   int(n.EndByte()),
				Line:  int(n.StartPoint().Row) + 1,
			})
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
	return comments, nil
}

// syntaxError locates the first error or missing node below n.
func syntaxError(path string, n *sitter.Node) *SyntaxError {
	var find func(n *sitter.Node) *sitter.Node
	find = func(n *sitter.Node) *sitter.Node {
		if n.IsError() || n.IsMissing() {
			return n
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c.HasError() {
				if found := find(c); found != nil {
					return found
				}
			}
		}
		return nil
	}
	bad := find(n)
	if bad == nil {
		bad = n
	}
	p := bad.StartPoint()
	msg := "unexpected " + bad.Type()
	if bad.IsMissing() {
		msg = "missing " + bad.Type()
	}
	return &SyntaxError{Path: path, Line: int(p.Row) + 1, Column: int(p.Column) + 1, Msg: msg}
}
