package intentions

// Collection is the root of the intention graph: it exclusively owns all
// file intentions. During the sequential pass pipeline it requires no
// locking; the only parallel consumers (the body queue workers) read it and
// serialize their own appends.
type Collection struct {
	files []*FileIntention
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{}
}

// AddFile moves a file intention under the collection.
func (c *Collection) AddFile(f *FileIntention) {
	detach(f)
	f.setParent(nil)
	c.files = append(c.files, f)
}

// RemoveFile unlinks a file intention from the collection.
func (c *Collection) RemoveFile(f *FileIntention) bool {
	for i, existing := range c.files {
		if existing == f {
			c.files = append(c.files[:i], c.files[i+1:]...)
			return true
		}
	}
	return false
}

// Files returns the file intentions in insertion order.
func (c *Collection) Files() []*FileIntention {
	return c.files
}

// FileByPath finds a file intention by its source path.
func (c *Collection) FileByPath(path string) *FileIntention {
	for _, f := range c.files {
		if f.Path == path {
			return f
		}
	}
	return nil
}

// EachType visits every type intention, file by file, in insertion order.
func (c *Collection) EachType(fn func(*FileIntention, TypeIntention)) {
	for _, f := range c.files {
		for _, t := range f.Types {
			fn(f, t)
		}
	}
}

// ClassByName finds the first class intention (not an extension) with the
// given name anywhere in the collection.
func (c *Collection) ClassByName(name string) *ClassIntention {
	var found *ClassIntention
	c.EachType(func(_ *FileIntention, t TypeIntention) {
		if found != nil {
			return
		}
		if cls, ok := t.(*ClassIntention); ok && cls.TypeName == name {
			found = cls
		}
	})
	return found
}

// ProtocolByName finds the first protocol intention with the given name.
func (c *Collection) ProtocolByName(name string) *ProtocolIntention {
	var found *ProtocolIntention
	c.EachType(func(_ *FileIntention, t TypeIntention) {
		if found != nil {
			return
		}
		if p, ok := t.(*ProtocolIntention); ok && p.TypeName == name {
			found = p
		}
	})
	return found
}

// EnumByName finds the first enum intention with the given name.
func (c *Collection) EnumByName(name string) *EnumIntention {
	var found *EnumIntention
	c.EachType(func(_ *FileIntention, t TypeIntention) {
		if found != nil {
			return
		}
		if e, ok := t.(*EnumIntention); ok && e.TypeName == name {
			found = e
		}
	})
	return found
}
