package model

import (
	"fmt"
	"strings"
)

// Added records when an entity was introduced.
type Added struct {
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

// Status marks the stability of an entity.
type Status struct {
	Status      string `yaml:"status"`
	Description string `yaml:"description,omitempty"`
}

// Update is one @updated note.
type Update struct {
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

// TypeRef lists the alternative type names a value may have.
type TypeRef []string

// ParseTypeRef reads a type token. Both "object[A|B]" and "A|B" denote the
// alternatives A and B; anything else is a single type name.
func ParseTypeRef(token string) TypeRef {
	token = strings.TrimSpace(token)
	if inner, ok := strings.CutPrefix(token, "object["); ok && strings.HasSuffix(inner, "]") {
		token = strings.TrimSuffix(inner, "]")
	}
	var ref TypeRef
	for _, alt := range strings.Split(token, "|") {
		if alt = strings.TrimSpace(alt); alt != "" {
			ref = append(ref, alt)
		}
	}
	return ref
}

func (t TypeRef) String() string { return strings.Join(t, "|") }

// Param documents one parameter of a signature.
type Param struct {
	Name        string  `yaml:"name"`
	Type        TypeRef `yaml:"type,flow"`
	Description string  `yaml:"description,omitempty"`
}

// NewParam validates and returns a parameter record.
func NewParam(name string, typ TypeRef, description string) (Param, error) {
	p := Param{Name: name, Type: typ, Description: description}
	if name == "" {
		return p, fmt.Errorf("param: %w", ErrMissingName)
	}
	if len(typ) == 0 {
		return p, fmt.Errorf("param %s: %w", name, ErrMissingType)
	}
	return p, nil
}

// Returns documents the result of a signature.
type Returns struct {
	Type        TypeRef `yaml:"type,flow"`
	Description string  `yaml:"description,omitempty"`
}

// NewReturns validates and returns a return-info record.
func NewReturns(typ TypeRef, description string) (*Returns, error) {
	r := &Returns{Type: typ, Description: description}
	if len(typ) == 0 {
		return r, fmt.Errorf("returns: %w", ErrMissingType)
	}
	return r, nil
}

// Throws documents an error a signature may raise.
type Throws struct {
	Type        TypeRef `yaml:"type,flow"`
	Description string  `yaml:"description,omitempty"`
}

// NewThrows validates and returns a throws-info record.
func NewThrows(typ TypeRef, description string) (Throws, error) {
	t := Throws{Type: typ, Description: description}
	if len(typ) == 0 {
		return t, fmt.Errorf("throws: %w", ErrMissingType)
	}
	return t, nil
}
