package parser

import (
	"errors"
	"fmt"
	"slices"

	"github.com/Zachacious/go-docket/internal/model"
)

type handler func(ctx Context, doc *model.Document, ln Line, tag, args string) (Context, error)

var handlers = map[string]handler{
	TagModule:      dispatchModule,
	TagClass:       dispatchClass,
	TagSignature:   dispatchSignature,
	TagAdded:       dispatchAdded,
	TagStatus:      dispatchStatus,
	TagUpdated:     dispatchUpdated,
	TagUpdates:     dispatchUpdated,
	TagAuthor:      dispatchAuthor,
	TagAuthors:     dispatchAuthor,
	TagCopyright:   dispatchCopyright,
	TagDescription: dispatchDescription,
	TagParam:       dispatchParam,
	TagReturns:     dispatchReturns,
	TagReturn:      dispatchReturns,
	TagThrows:      dispatchThrows,
	TagSee:         dispatchSee,
}

// Dispatch applies one logical tag line to doc and returns the updated
// context. Unknown tags are ignored.
//
// A *StructuralError means the line could not be applied and the file must
// be abandoned. A *TagError means the line was malformed; the best-effort
// value has been stored and the returned context is valid.
func Dispatch(ctx Context, doc *model.Document, ln Line) (Context, error) {
	tag, args, ok := matchTag(ln.Text)
	if !ok {
		return ctx, nil
	}
	return handlers[tag](ctx, doc, ln, tag, args)
}

// ParseComment splits one comment into tag lines and dispatches each in
// order. Malformed tags are collected and parsing goes on; the first
// structural error stops the comment and is returned.
func ParseComment(ctx Context, doc *model.Document, text string, first int) (Context, []*TagError, error) {
	var diags []*TagError
	for _, ln := range Split(text, first) {
		next, err := Dispatch(ctx, doc, ln)
		if err != nil {
			var tagErr *TagError
			if !errors.As(err, &tagErr) {
				return ctx, diags, err
			}
			diags = append(diags, tagErr)
		}
		ctx = next
	}
	return ctx, diags, nil
}

func dispatchModule(ctx Context, doc *model.Document, ln Line, tag, args string) (Context, error) {
	name, extra := nextField(args)

	// Once a class or signature is open @module names its owner instead of
	// opening a module. The class wins over a signature declared after it.
	var owner *string
	switch {
	case ctx.Class != nil:
		owner = &ctx.Class.Module
	case ctx.Signature != nil:
		owner = &ctx.Signature.Module
	}
	if owner != nil {
		if name == "" {
			return ctx, malformed(ctx, ln, tag, ErrMissingArgument)
		}
		*owner = name
		return ctx, nil
	}

	m, err := model.NewModule(name)
	if err != nil {
		return ctx, structural(ctx, ln, tag, err)
	}
	if open := doc.Lookup(m.Name); open != nil {
		m = open
	} else {
		doc.Modules = append(doc.Modules, m)
	}
	ctx = ctx.declare(m)

	if extra != "" {
		return ctx, malformed(ctx, ln, tag, fmt.Errorf("%w: %q", ErrExtraArgument, extra))
	}
	return ctx, nil
}

func dispatchClass(ctx Context, doc *model.Document, ln Line, tag, args string) (Context, error) {
	decl, extra := nextField(args)
	c, err := model.NewClass(model.SplitQualified(decl))
	if err != nil {
		return ctx, structural(ctx, ln, tag, err)
	}

	switch {
	case c.Module == "":
		doc.Classes = append(doc.Classes, c)
	case ctx.Module != nil && ctx.Module.Name == c.Module:
		ctx.Module.Classes = append(ctx.Module.Classes, c)
	default:
		return ctx, structural(ctx, ln, tag, fmt.Errorf("class %s: module %q: %w", c.Name, c.Module, ErrModuleMismatch))
	}
	ctx = ctx.declare(c)

	if extra != "" {
		return ctx, malformed(ctx, ln, tag, fmt.Errorf("%w: %q", ErrExtraArgument, extra))
	}
	return ctx, nil
}

func dispatchSignature(ctx Context, doc *model.Document, ln Line, tag, args string) (Context, error) {
	s, err := model.NewSignature(args)
	if err != nil {
		return ctx, structural(ctx, ln, tag, err)
	}
	if ctx.Class != nil {
		s.Class = ctx.Class.Name
	}

	switch {
	case s.Module != "" && ctx.Module != nil && s.Module == ctx.Module.Name:
		ctx.Module.Signatures = append(ctx.Module.Signatures, s)
	case s.Module != "":
		return ctx, structural(ctx, ln, tag, fmt.Errorf("signature %s: module %q: %w", s.Name, s.Module, ErrModuleMismatch))
	case ctx.Class != nil:
		ctx.Class.Signatures = append(ctx.Class.Signatures, s)
	default:
		doc.Signatures = append(doc.Signatures, s)
	}
	return ctx.declare(s), nil
}

// current returns the shared fields of the current entity or a structural
// error when nothing has been declared yet.
func current(ctx Context, ln Line, tag string) (*model.Docs, error) {
	if ctx.Current == nil {
		return nil, structural(ctx, ln, tag, ErrNoContext)
	}
	return ctx.Current.Info(), nil
}

func dispatchAdded(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	info, err := current(ctx, ln, tag)
	if err != nil {
		return ctx, err
	}
	version, text := nextField(args)
	prev := info.Added
	info.Added = &model.Added{Version: version, Description: text}
	switch {
	case version == "":
		return ctx, malformed(ctx, ln, tag, ErrMissingArgument)
	case prev != nil:
		return ctx, malformed(ctx, ln, tag, ErrDuplicate)
	}
	return ctx, nil
}

func dispatchStatus(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	info, err := current(ctx, ln, tag)
	if err != nil {
		return ctx, err
	}
	status, text := nextField(args)
	prev := info.Status
	info.Status = &model.Status{Status: status, Description: text}
	switch {
	case status == "":
		return ctx, malformed(ctx, ln, tag, ErrMissingArgument)
	case prev != nil:
		return ctx, malformed(ctx, ln, tag, ErrDuplicate)
	}
	return ctx, nil
}

func dispatchUpdated(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	info, err := current(ctx, ln, tag)
	if err != nil {
		return ctx, err
	}
	version, text := nextField(args)
	info.Updates = append(info.Updates, model.Update{Version: version, Description: text})
	if version == "" {
		return ctx, malformed(ctx, ln, tag, ErrMissingArgument)
	}
	return ctx, nil
}

func dispatchAuthor(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	info, err := current(ctx, ln, tag)
	if err != nil {
		return ctx, err
	}
	if args == "" {
		return ctx, malformed(ctx, ln, tag, ErrMissingArgument)
	}
	info.Authors = append(info.Authors, args)
	return ctx, nil
}

func dispatchCopyright(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	var field *string
	switch cur := ctx.Current.(type) {
	case nil:
		return ctx, structural(ctx, ln, tag, ErrNoContext)
	case *model.Module:
		field = &cur.Copyright
	case *model.Class:
		field = &cur.Copyright
	case *model.Signature:
		return ctx, malformed(ctx, ln, tag, fmt.Errorf("%w: signatures carry no copyright", ErrUnsupported))
	}
	prev := *field
	*field = args
	if prev != "" {
		return ctx, malformed(ctx, ln, tag, ErrDuplicate)
	}
	return ctx, nil
}

func dispatchDescription(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	info, err := current(ctx, ln, tag)
	if err != nil {
		return ctx, err
	}
	prev := info.Description
	info.Description = args
	if prev != "" {
		return ctx, malformed(ctx, ln, tag, ErrDuplicate)
	}
	return ctx, nil
}

func dispatchSee(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	info, err := current(ctx, ln, tag)
	if err != nil {
		return ctx, err
	}
	if args == "" {
		return ctx, malformed(ctx, ln, tag, ErrMissingArgument)
	}
	info.See = append(info.See, args)
	return ctx, nil
}

func dispatchParam(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	if ctx.Signature == nil {
		return ctx, structural(ctx, ln, tag, ErrNoSignature)
	}
	name, rest := nextField(args)
	typ, text := nextField(rest)
	p, err := model.NewParam(name, model.ParseTypeRef(typ), text)
	// A param without a name has nothing to key its table row on, so it is
	// the one malformed value that is not stored.
	if errors.Is(err, model.ErrMissingName) {
		return ctx, malformed(ctx, ln, tag, fmt.Errorf("%w: %w", ErrMissingArgument, err))
	}
	ctx.Signature.Params = append(ctx.Signature.Params, p)
	if err != nil {
		return ctx, malformed(ctx, ln, tag, fmt.Errorf("%w: %w", ErrMissingArgument, err))
	}
	return ctx, nil
}

func dispatchReturns(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	if ctx.Signature == nil {
		return ctx, structural(ctx, ln, tag, ErrNoSignature)
	}
	typ, text := nextField(args)
	r, err := model.NewReturns(model.ParseTypeRef(typ), text)
	prev := ctx.Signature.Return
	ctx.Signature.Return = r
	switch {
	case err != nil:
		return ctx, malformed(ctx, ln, tag, fmt.Errorf("%w: %w", ErrMissingArgument, err))
	case prev != nil:
		return ctx, malformed(ctx, ln, tag, ErrDuplicate)
	}
	return ctx, nil
}

func dispatchThrows(ctx Context, _ *model.Document, ln Line, tag, args string) (Context, error) {
	if ctx.Signature == nil {
		return ctx, structural(ctx, ln, tag, ErrNoSignature)
	}
	typ, text := nextField(args)
	t, err := model.NewThrows(model.ParseTypeRef(typ), text)
	ctx.Signature.Throws = append(ctx.Signature.Throws, t)
	if err != nil {
		return ctx, malformed(ctx, ln, tag, fmt.Errorf("%w: %w", ErrMissingArgument, err))
	}
	return ctx, nil
}

// Tags returns the recognised tag names, sorted.
func Tags() []string {
	names := make([]string, 0, len(handlers))
	for name := range handlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
