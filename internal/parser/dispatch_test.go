package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachacious/go-docket/internal/model"
)

// run parses each comment of one file in order and returns the first
// structural error, if any.
func run(t *testing.T, comments ...string) (*model.Document, Context, []*TagError, error) {
	t.Helper()
	doc := &model.Document{}
	ctx := Context{}.ForFile("test.js")
	var all []*TagError
	for _, c := range comments {
		var diags []*TagError
		var err error
		ctx, diags, err = ParseComment(ctx, doc, c, 1)
		all = append(all, diags...)
		if err != nil {
			return doc, ctx, all, err
		}
	}
	return doc, ctx, all, nil
}

func TestShapesScenario(t *testing.T) {
	doc, _, diags, err := run(t,
		"* @module Shapes\n *  @description Shape utilities. ",
		"* @class Shapes.Circle\n *  @author Ada ",
		"* @signature area()\n *  @returns number the area ",
	)
	require.NoError(t, err)
	assert.Empty(t, diags)

	require.Len(t, doc.Modules, 1)
	shapes := doc.Modules[0]
	assert.Equal(t, "Shapes", shapes.Name)
	assert.Equal(t, "Shape utilities.", shapes.Description)

	require.Len(t, shapes.Classes, 1)
	circle := shapes.Classes[0]
	assert.Equal(t, "Circle", circle.Name)
	assert.Equal(t, "Shapes", circle.Module)
	assert.Equal(t, []string{"Ada"}, circle.Authors)

	require.Len(t, circle.Signatures, 1)
	area := circle.Signatures[0]
	assert.Equal(t, "area", area.Name)
	assert.Equal(t, "Circle", area.Class)
	require.NotNil(t, area.Return)
	assert.Equal(t, model.TypeRef{"number"}, area.Return.Type)
	assert.Equal(t, "the area", area.Return.Description)

	assert.Empty(t, doc.Classes)
	assert.Empty(t, doc.Signatures)
}

func TestCommentWithoutTagsIsNoop(t *testing.T) {
	doc, ctx, diags, err := run(t, "* A plain comment.\n * Still plain.", "// not docs")
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, &model.Document{}, doc)
	assert.Nil(t, ctx.Current)
	assert.Zero(t, ctx.Count)
}

func TestClassQualifiedNames(t *testing.T) {
	doc, _, _, err := run(t, "@module Foo", "@class Foo.Bar")
	require.NoError(t, err)
	bar := doc.Modules[0].Classes[0]
	assert.Equal(t, "Foo", bar.Module)
	assert.Equal(t, "Bar", bar.Name)

	doc, _, _, err = run(t, "@class Bar")
	require.NoError(t, err)
	require.Len(t, doc.Classes, 1)
	assert.Equal(t, "", doc.Classes[0].Module)
	assert.Equal(t, "Bar", doc.Classes[0].Name)
}

func TestClassModuleMismatch(t *testing.T) {
	doc, _, _, err := run(t, "@class Baz.Bar")
	var serr *StructuralError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, ErrModuleMismatch)
	assert.Equal(t, "test.js", serr.File)
	assert.Equal(t, TagClass, serr.Tag)
	assert.Contains(t, err.Error(), "test.js")
	assert.Empty(t, doc.Classes)

	_, _, _, err = run(t, "@module Foo", "@class Baz.Bar")
	assert.ErrorIs(t, err, ErrModuleMismatch)
}

func TestMissingNames(t *testing.T) {
	for _, comment := range []string{"@class", "@module", "@signature", "@class Foo.", "@signature (a, b)"} {
		t.Run(comment, func(t *testing.T) {
			doc, _, _, err := run(t, comment)
			var serr *StructuralError
			require.ErrorAs(t, err, &serr)
			assert.ErrorIs(t, err, model.ErrMissingName)
			assert.Equal(t, &model.Document{}, doc)
		})
	}
}

func TestSignatureAttachment(t *testing.T) {
	t.Run("top level", func(t *testing.T) {
		doc, _, _, err := run(t, "@signature main()")
		require.NoError(t, err)
		require.Len(t, doc.Signatures, 1)
		assert.Empty(t, doc.Signatures[0].Class)
	})

	t.Run("under current class", func(t *testing.T) {
		doc, _, _, err := run(t, "@class Parser", "@signature parse()\n@signature parseFile(path)")
		require.NoError(t, err)
		assert.Empty(t, doc.Signatures)
		sigs := doc.Classes[0].Signatures
		require.Len(t, sigs, 2)
		assert.Equal(t, "parse", sigs[0].Name)
		assert.Equal(t, "parseFile", sigs[1].Name)
		assert.Equal(t, "Parser", sigs[1].Class)
	})

	t.Run("module qualified", func(t *testing.T) {
		doc, _, _, err := run(t, "@module Shapes", "@class Shapes.Circle", "@signature Shapes.unit()")
		require.NoError(t, err)
		shapes := doc.Modules[0]
		require.Len(t, shapes.Signatures, 1)
		assert.Equal(t, "unit", shapes.Signatures[0].Name)
		assert.Equal(t, "Circle", shapes.Signatures[0].Class)
		assert.Empty(t, shapes.Classes[0].Signatures)
	})

	t.Run("module qualified without module", func(t *testing.T) {
		_, _, _, err := run(t, "@signature Nope.unit()")
		assert.ErrorIs(t, err, ErrModuleMismatch)
	})

	t.Run("module without class", func(t *testing.T) {
		doc, _, _, err := run(t, "@module Shapes", "@signature helper()")
		require.NoError(t, err)
		assert.Empty(t, doc.Modules[0].Signatures)
		require.Len(t, doc.Signatures, 1)
	})
}

func TestOneBlockOpensClassAndSignature(t *testing.T) {
	doc, ctx, _, err := run(t, "@class Parser\n@description Parses.\n@signature new Parser()\n@description Builds one.")
	require.NoError(t, err)
	parser := doc.Classes[0]
	assert.Equal(t, "Parses.", parser.Description)
	require.Len(t, parser.Signatures, 1)
	assert.Equal(t, "Builds one.", parser.Signatures[0].Description)
	assert.Same(t, parser.Signatures[0], ctx.Current)
	assert.Equal(t, 2, ctx.Count)
}

func TestModuleBackReference(t *testing.T) {
	doc, ctx, _, err := run(t, "@class Widget\n@module ui")
	require.NoError(t, err)
	assert.Empty(t, doc.Modules)
	assert.Equal(t, "ui", doc.Classes[0].Module)
	assert.Nil(t, ctx.Module)

	doc, _, _, err = run(t, "@signature draw()\n@module ui")
	require.NoError(t, err)
	assert.Equal(t, "ui", doc.Signatures[0].Module)

	// With both open the class takes the owner, even when the signature
	// was declared last.
	doc, ctx, _, err = run(t, "@class Widget", "@signature draw()\n@module ui")
	require.NoError(t, err)
	widget := doc.Classes[0]
	assert.Equal(t, "ui", widget.Module)
	require.Len(t, widget.Signatures, 1)
	assert.Empty(t, widget.Signatures[0].Module)
	assert.Same(t, widget.Signatures[0], ctx.Current)

	_, _, diags, err := run(t, "@class Widget\n@module")
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0], ErrMissingArgument)
}

func TestModuleReopened(t *testing.T) {
	doc, _, _, err := run(t, "@module Shapes", "@class Shapes.Circle", "@module Shapes")
	// After a class is declared @module is a back-reference.
	require.NoError(t, err)
	assert.Len(t, doc.Modules, 1)

	doc = &model.Document{}
	ctx := Context{}.ForFile("a.js")
	ctx, _, err = ParseComment(ctx, doc, "@module Shapes", 1)
	require.NoError(t, err)
	ctx = ctx.ForFile("b.js")
	ctx, _, err = ParseComment(ctx, doc, "@module Shapes\n@author Ada", 1)
	require.NoError(t, err)
	require.Len(t, doc.Modules, 1)
	assert.Same(t, doc.Modules[0], ctx.Module)
	assert.Equal(t, []string{"Ada"}, doc.Modules[0].Authors)
}

func TestFieldTags(t *testing.T) {
	doc, _, diags, err := run(t, `* @class docket.Parser
	 * @module docket
	 * @author Rich Lowe
	 * @authors Ada Lovelace
	 * @copyright 2018 Rich Lowe
	 * @added v0.1.0 first cut
	 * @updated v0.2.0
	 * @updates v0.3.0 added modules
	 * @status experimental Expect API changes.
	 * @see docket.Module
	 * @description Class for parsing docket entries in
	 * JavaScript class files.`)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModuleMismatch)
	assert.Empty(t, diags)
	assert.Empty(t, doc.Classes)

	doc, _, diags, err = run(t, `* @class Parser
	 * @module docket
	 * @author Rich Lowe
	 * @authors Ada Lovelace
	 * @copyright 2018 Rich Lowe
	 * @added v0.1.0 first cut
	 * @updated v0.2.0
	 * @updates v0.3.0 added modules
	 * @status experimental Expect API changes.
	 * @see docket.Module
	 * @description Class for parsing docket entries in
	 * JavaScript class files.`)
	require.NoError(t, err)
	assert.Empty(t, diags)
	c := doc.Classes[0]
	assert.Equal(t, "docket", c.Module)
	assert.Equal(t, []string{"Rich Lowe", "Ada Lovelace"}, c.Authors)
	assert.Equal(t, "2018 Rich Lowe", c.Copyright)
	assert.Equal(t, &model.Added{Version: "v0.1.0", Description: "first cut"}, c.Added)
	assert.Equal(t, []model.Update{
		{Version: "v0.2.0"},
		{Version: "v0.3.0", Description: "added modules"},
	}, c.Updates)
	assert.Equal(t, &model.Status{Status: "experimental", Description: "Expect API changes."}, c.Status)
	assert.Equal(t, []string{"docket.Module"}, c.See)
	assert.Equal(t, "Class for parsing docket entries in JavaScript class files.", c.Description)
}

func TestSignatureTags(t *testing.T) {
	doc, _, diags, err := run(t, `* @signature last(obj)
	 * @param obj object[DocketClass|DocketModule] the last object
	 * @param count number
	 * @returns this
	 * @throws TypeError if `+"`obj`"+` is not valid
	 * @throws object[RangeError]`)
	require.NoError(t, err)
	assert.Empty(t, diags)
	s := doc.Signatures[0]
	assert.Equal(t, []model.Param{
		{Name: "obj", Type: model.TypeRef{"DocketClass", "DocketModule"}, Description: "the last object"},
		{Name: "count", Type: model.TypeRef{"number"}},
	}, s.Params)
	assert.Equal(t, &model.Returns{Type: model.TypeRef{"this"}}, s.Return)
	assert.Equal(t, []model.Throws{
		{Type: model.TypeRef{"TypeError"}, Description: "if `obj` is not valid"},
		{Type: model.TypeRef{"RangeError"}},
	}, s.Throws)
}

func TestMissingContextIsStructural(t *testing.T) {
	tests := []struct {
		comment string
		want    error
	}{
		{"@description orphan", ErrNoContext},
		{"@author Ada", ErrNoContext},
		{"@copyright 2018", ErrNoContext},
		{"@param x number", ErrNoSignature},
		{"@returns number", ErrNoSignature},
		{"@throws TypeError", ErrNoSignature},
	}
	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			_, _, _, err := run(t, tt.comment)
			var serr *StructuralError
			require.ErrorAs(t, err, &serr)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, _, _, err := run(t, "@class Foo", "@param x number")
	assert.ErrorIs(t, err, ErrNoSignature)
}

func TestMalformedTagsAreRecoverable(t *testing.T) {
	doc, ctx, diags, err := run(t, `@signature f(a)
	@param a
	@param
	@returns
	@returns number
	@added
	@status
	@updated
	@author
	@see
	@copyright 2020
	@description first
	@description second
	@unknown whatever`)
	require.NoError(t, err)
	s := doc.Signatures[0]
	assert.Same(t, s, ctx.Current)

	// Partial values are kept.
	assert.Equal(t, []model.Param{{Name: "a"}}, s.Params)
	assert.Equal(t, model.TypeRef{"number"}, s.Return.Type)
	assert.Equal(t, &model.Added{}, s.Added)
	assert.Equal(t, &model.Status{}, s.Status)
	assert.Equal(t, []model.Update{{}}, s.Updates)
	assert.Empty(t, s.Authors)
	assert.Empty(t, s.See)
	assert.Equal(t, "second", s.Description)

	var kinds []error
	for _, d := range diags {
		switch {
		case errors.Is(d, ErrMissingArgument):
			kinds = append(kinds, ErrMissingArgument)
		case errors.Is(d, ErrDuplicate):
			kinds = append(kinds, ErrDuplicate)
		case errors.Is(d, ErrUnsupported):
			kinds = append(kinds, ErrUnsupported)
		default:
			t.Errorf("unexpected diagnostic %v", d)
		}
	}
	assert.Equal(t, []error{
		ErrMissingArgument, // @param a
		ErrMissingArgument, // @param
		ErrMissingArgument, // @returns
		ErrDuplicate,       // @returns number
		ErrMissingArgument, // @added
		ErrMissingArgument, // @status
		ErrMissingArgument, // @updated
		ErrMissingArgument, // @author
		ErrMissingArgument, // @see
		ErrUnsupported,     // @copyright
		ErrDuplicate,       // @description second
	}, kinds)
	assert.Equal(t, 3, diags[1].Line)
}

func TestExtraDeclarationText(t *testing.T) {
	doc, _, diags, err := run(t, "@class Foo extends Bar")
	require.NoError(t, err)
	assert.Equal(t, "Foo", doc.Classes[0].Name)
	require.Len(t, diags, 1)
	assert.ErrorIs(t, diags[0], ErrExtraArgument)
}

func TestForFileResetsDeclarations(t *testing.T) {
	doc := &model.Document{}
	ctx := Context{}.ForFile("a.js")
	ctx, _, err := ParseComment(ctx, doc, "@module M\n@class M.C\n@signature s()", 1)
	require.NoError(t, err)
	require.NotNil(t, ctx.Class)
	require.NotNil(t, ctx.Signature)

	next := ctx.ForFile("a.js")
	assert.Nil(t, next.Class)
	assert.Nil(t, next.Signature)
	assert.Nil(t, next.Current)
	assert.Zero(t, next.Count)
	assert.Same(t, doc.Modules[0], next.Module)

	// The carried module still accepts qualified declarations.
	next, _, err = ParseComment(next, doc, "@class M.D", 1)
	require.NoError(t, err)
	assert.Len(t, doc.Modules[0].Classes, 2)
}

func TestTags(t *testing.T) {
	tags := Tags()
	assert.Contains(t, tags, TagModule)
	assert.Contains(t, tags, TagUpdates)
	assert.IsIncreasing(t, tags)
}
