package source

import (
	"context"
	"errors"
	"go/parser"
	"go/scanner"
	"go/token"
)

// GoSource reports the comments of Go files using go/parser.
type GoSource struct{}

func (GoSource) Comments(ctx context.Context, path string, src []byte) ([]Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, path, src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		var list scanner.ErrorList
		if errors.As(err, &list) && len(list) > 0 {
			return nil, &SyntaxError{Path: path, Line: list[0].Pos.Line, Column: list[0].Pos.Column, Msg: list[0].Msg}
		}
		return nil, &SyntaxError{Path: path, Msg: err.Error()}
	}

	var comments []Comment
	for _, group := range f.Comments {
		for _, c := range group.List {
			start := fset.Position(c.Pos())
			end := fset.Position(c.End())
			text, block := stripDelimiters(c.Text)
			comments = append(comments, Comment{
				Block: block,
				Text:  text,
				Start: start.Offset,
				End:   end.Offset,
				Line:  start.Line,
			})
		}
	}
	return comments, nil
}
