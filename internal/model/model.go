package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingName is returned when a declaration has no usable name.
	ErrMissingName = errors.New("missing name")
	// ErrMissingType is returned when a typed record has no type reference.
	ErrMissingType = errors.New("missing type")
)

// Kind identifies which entity a declaration tag produced.
type Kind int

const (
	KindModule Kind = iota
	KindClass
	KindSignature
)

func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindClass:
		return "class"
	case KindSignature:
		return "signature"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Entity is a node of the document tree. It is implemented only by
// *Module, *Class and *Signature.
type Entity interface {
	Kind() Kind
	// Title is the qualified display name of the entity.
	Title() string
	// Info exposes the tag fields shared by every entity kind.
	Info() *Docs
	entity()
}

// Docs holds the fields every entity can carry.
type Docs struct {
	// Added records the version the entity first appeared in.
	Added *Added `yaml:"added,omitempty"`
	// Authors are the raw @author texts, in tag order.
	Authors []string `yaml:"authors,omitempty"`
	// Description is free text that may still contain inline markup tokens.
	Description string `yaml:"description,omitempty"`
	// Status marks the stability of the entity (e.g. "experimental").
	Status *Status `yaml:"status,omitempty"`
	// Updates are the @updated notes, in tag order.
	Updates []Update `yaml:"updates,omitempty"`
	// See holds the @see references, in tag order.
	See []string `yaml:"see,omitempty"`
}

// Module is the root of a documented namespace.
type Module struct {
	Name      string `yaml:"name"`
	Copyright string `yaml:"copyright,omitempty"`
	Docs      `yaml:",inline"`
	// Classes are the classes declared as Module.Class, in source order.
	Classes []*Class `yaml:"classes,omitempty"`
	// Signatures are the signatures declared as Module.name(...), in source order.
	Signatures []*Signature `yaml:"signatures,omitempty"`
}

// NewModule returns a module with the given name.
func NewModule(name string) (*Module, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("module: %w", ErrMissingName)
	}
	return &Module{Name: name}, nil
}

func (*Module) Kind() Kind      { return KindModule }
func (m *Module) Title() string { return m.Name }
func (m *Module) Info() *Docs   { return &m.Docs }
func (*Module) entity()         {}

// Class documents a type, optionally owned by a module.
type Class struct {
	Name string `yaml:"name"`
	// Module is the owning module name, "" for a top-level class.
	Module    string `yaml:"module,omitempty"`
	Copyright string `yaml:"copyright,omitempty"`
	Docs      `yaml:",inline"`
	// Signatures are the methods documented while this class was current.
	Signatures []*Signature `yaml:"signatures,omitempty"`
}

// NewClass returns a class named name owned by module ("" for none).
func NewClass(module, name string) (*Class, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("class: %w", ErrMissingName)
	}
	return &Class{Name: name, Module: strings.TrimSpace(module)}, nil
}

func (*Class) Kind() Kind    { return KindClass }
func (c *Class) Info() *Docs { return &c.Docs }
func (*Class) entity()       {}

// Title returns Module.Name, or Name for a top-level class.
func (c *Class) Title() string {
	if c.Module == "" {
		return c.Name
	}
	return c.Module + "." + c.Name
}

// Signature documents one callable form, e.g. "area(radius)".
type Signature struct {
	Name string `yaml:"name"`
	// Text is the raw declaration as written after @signature.
	Text   string `yaml:"signature"`
	Class  string `yaml:"class,omitempty"`
	Module string `yaml:"module,omitempty"`
	Docs   `yaml:",inline"`
	Params []Param  `yaml:"params,omitempty"`
	Return *Returns `yaml:"returns,omitempty"`
	Throws []Throws `yaml:"throws,omitempty"`
}

// NewSignature parses the raw declaration text. The name is the text up to
// the first '(' and may carry a "Module." qualifier.
func NewSignature(text string) (*Signature, error) {
	text = strings.TrimSpace(text)
	head, _, _ := strings.Cut(text, "(")
	module, name := SplitQualified(head)
	if name == "" {
		return nil, fmt.Errorf("signature %q: %w", text, ErrMissingName)
	}
	return &Signature{Name: name, Module: module, Text: text}, nil
}

func (*Signature) Kind() Kind    { return KindSignature }
func (s *Signature) Info() *Docs { return &s.Docs }
func (*Signature) entity()       {}

// Title returns the signature text, prefixed with the lower-cased class
// name for instance methods. Constructors ("new X(...)") keep their text.
func (s *Signature) Title() string {
	if s.Class == "" || strings.HasPrefix(s.Text, "new ") {
		return s.Text
	}
	return strings.ToLower(s.Class[:1]) + s.Class[1:] + "." + s.Text
}

// SplitQualified splits "Module.Name" at the first separator. Unqualified
// input yields an empty module.
func SplitQualified(s string) (module, name string) {
	s = strings.TrimSpace(s)
	if m, n, ok := strings.Cut(s, "."); ok {
		return strings.TrimSpace(m), strings.TrimSpace(n)
	}
	return "", s
}
