package hub

// Collection owns the state of one parse run: the accepted entries in file
// order and the author index built from them.
type Collection struct {
	Entries []*Entry
	Index   *AuthorIndex
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{
		Entries: make([]*Entry, 0),
		Index:   NewAuthorIndex(),
	}
}

// Add records an accepted entry and indexes its authors.
func (c *Collection) Add(e *Entry) {
	c.Entries = append(c.Entries, e)
	c.Index.Insert(e)
}

// AddAll adds entries in order.
func (c *Collection) AddAll(entries []*Entry) {
	for _, e := range entries {
		c.Add(e)
	}
}

// Len returns the number of entries.
func (c *Collection) Len() int {
	return len(c.Entries)
}

// Affiliated splits the entries into those with at least one author
// affiliated with target and those without, preserving file order.
func (c *Collection) Affiliated(a *Affiliations, target string) (matching, other []*Entry) {
	for _, e := range c.Entries {
		if HasQualifyingAuthor(e, a, target) {
			matching = append(matching, e)
		} else {
			other = append(other, e)
		}
	}
	return matching, other
}
