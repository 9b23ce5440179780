package parser

import "github.com/Zachacious/go-docket/internal/model"

// Context is the routing state of a parse run. It is passed by value into
// every Dispatch call and the updated copy is returned, so a run owns its
// state outright.
type Context struct {
	// File is the name of the file being parsed, used in errors.
	File string
	// Current is the entity that field tags (@description, @author, ...)
	// attach to.
	Current model.Entity
	// Module is the most recently opened module. It is the only pointer
	// that survives into the next file.
	Module *model.Module
	// Class is the most recently declared class of the current file.
	Class *model.Class
	// Signature is the most recently declared signature of the current file.
	Signature *model.Signature
	// Count is the number of entities declared in the current file.
	Count int
}

// ForFile returns the context to start parsing file with. Class, signature
// and current entity are cleared so declarations do not leak across files;
// the open module is kept.
func (c Context) ForFile(file string) Context {
	return Context{File: file, Module: c.Module}
}

// declare makes e the current entity and bumps the per-file counter.
func (c Context) declare(e model.Entity) Context {
	c.Current = e
	c.Count++
	switch e := e.(type) {
	case *model.Module:
		c.Module = e
		c.Class = nil
		c.Signature = nil
	case *model.Class:
		c.Class = e
		c.Signature = nil
	case *model.Signature:
		c.Signature = e
	}
	return c
}
