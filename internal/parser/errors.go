package parser

import (
	"errors"
	"fmt"
)

var (
	// ErrModuleMismatch is returned when a declaration names an owning
	// module that is not the open one.
	ErrModuleMismatch = errors.New("no matching module has been parsed")
	// ErrNoContext is returned for a field tag with no entity to attach to.
	ErrNoContext = errors.New("no current module, class or signature")
	// ErrNoSignature is returned for @param, @returns or @throws outside a
	// signature.
	ErrNoSignature = errors.New("no current signature")

	// ErrMissingArgument marks a tag whose structured arguments are missing.
	ErrMissingArgument = errors.New("missing argument")
	// ErrExtraArgument marks a declaration followed by unexpected text.
	ErrExtraArgument = errors.New("unexpected extra text")
	// ErrDuplicate marks a single-valued tag given twice for one entity.
	ErrDuplicate = errors.New("duplicate tag, previous value replaced")
	// ErrUnsupported marks a tag the current entity kind cannot hold.
	ErrUnsupported = errors.New("tag not supported here")
)

// StructuralError is an invalid or inconsistent declaration. It aborts the
// file being parsed.
type StructuralError struct {
	File string
	Line int
	Tag  string
	Err  error
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Tag, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// TagError is a malformed but recoverable tag. Whatever could be extracted
// from the tag has already been stored when it is returned.
type TagError struct {
	File string
	Line int
	Tag  string
	Err  error
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %v", e.File, e.Line, e.Tag, e.Err)
}

func (e *TagError) Unwrap() error { return e.Err }

func structural(ctx Context, ln Line, tag string, err error) error {
	return &StructuralError{File: ctx.File, Line: ln.Number, Tag: tag, Err: err}
}

func malformed(ctx Context, ln Line, tag string, err error) error {
	return &TagError{File: ctx.File, Line: ln.Number, Tag: tag, Err: err}
}
