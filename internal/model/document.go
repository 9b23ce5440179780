package model

// Document is the forest produced by a parse run.
type Document struct {
	Modules    []*Module    `yaml:"modules,omitempty"`
	Classes    []*Class     `yaml:"classes,omitempty"`
	Signatures []*Signature `yaml:"signatures,omitempty"`
}

// Lookup returns the module with the given name, or nil.
func (d *Document) Lookup(name string) *Module {
	for _, m := range d.Modules {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// Walk calls fn for every entity in tree order: each module, its classes
// (each followed by its signatures) and its signatures; then the top-level
// classes with their signatures; then the top-level signatures. Walk stops
// at the first error.
func (d *Document) Walk(fn func(Entity) error) error {
	walkClass := func(c *Class) error {
		if err := fn(c); err != nil {
			return err
		}
		for _, s := range c.Signatures {
			if err := fn(s); err != nil {
				return err
			}
		}
		return nil
	}
	for _, m := range d.Modules {
		if err := fn(m); err != nil {
			return err
		}
		for _, c := range m.Classes {
			if err := walkClass(c); err != nil {
				return err
			}
		}
		for _, s := range m.Signatures {
			if err := fn(s); err != nil {
				return err
			}
		}
	}
	for _, c := range d.Classes {
		if err := walkClass(c); err != nil {
			return err
		}
	}
	for _, s := range d.Signatures {
		if err := fn(s); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of entities of each kind in the tree.
func (d *Document) Count() map[Kind]int {
	counts := make(map[Kind]int, 3)
	_ = d.Walk(func(e Entity) error {
		counts[e.Kind()]++
		return nil
	})
	return counts
}

// Mark is a snapshot of the document taken with Document.Mark.
type Mark struct {
	modules    int
	classes    int
	signatures int
	saved      map[*Module]Module
}

// Mark records the current shape of the document so that a later Restore
// can discard everything added since. Modules are the only entities a later
// file can mutate, so they are copied; every other entity is reachable only
// through the lists whose lengths are recorded.
func (d *Document) Mark() Mark {
	mk := Mark{
		modules:    len(d.Modules),
		classes:    len(d.Classes),
		signatures: len(d.Signatures),
		saved:      make(map[*Module]Module, len(d.Modules)),
	}
	for _, m := range d.Modules {
		mk.saved[m] = *m
	}
	return mk
}

// Restore rolls the document back to mk.
func (d *Document) Restore(mk Mark) {
	d.Modules = d.Modules[:mk.modules]
	d.Classes = d.Classes[:mk.classes]
	d.Signatures = d.Signatures[:mk.signatures]
	for m, saved := range mk.saved {
		*m = saved
	}
}
