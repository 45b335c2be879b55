package api

// Fallback texts typed when content cannot be interpreted.
const (
	// FallbackContent is typed when there is nothing to type at all, e.g.
	// an empty list narrowed to a single string.
	FallbackContent = "I have no clue what to type"

	// FallbackPair is typed when a malformed correction tuple has no
	// first element.
	FallbackPair = "I don't know what to type"

	// InvalidString replaces non-string values found inside list content.
	InvalidString = "Invalid String"
)

// Item is one entry of list content. It is either a plain string ("type
// this") or a tuple of strings. A tuple of exactly two elements is a
// correction pair: type the first, then edit it into the second.
type Item struct {
	parts []string
	tuple bool
}

// Text returns a plain string item.
func Text(s string) Item {
	return Item{parts: []string{s}}
}

// Pair returns a correction pair item.
func Pair(first, second string) Item {
	return Item{parts: []string{first, second}, tuple: true}
}

// Tuple returns a tuple item with any number of parts. Tuples that do not
// have exactly two parts are malformed and degrade to typing their first
// part.
func Tuple(parts ...string) Item {
	cp := make([]string, len(parts))
	copy(cp, parts)
	return Item{parts: cp, tuple: true}
}

// IsTuple reports whether the item was supplied as a tuple (well-formed or not).
func (i Item) IsTuple() bool { return i.tuple }

// IsPair reports whether the item is a well-formed correction pair.
func (i Item) IsPair() bool { return i.tuple && len(i.parts) == 2 }

// Parts returns a copy of the tuple parts. For plain items it holds the
// single string.
func (i Item) Parts() []string {
	cp := make([]string, len(i.parts))
	copy(cp, i.parts)
	return cp
}

// First returns the first string of the item, or FallbackPair if the
// item is an empty tuple.
func (i Item) First() string {
	if len(i.parts) == 0 {
		return FallbackPair
	}
	return i.parts[0]
}

// Content is what a session types: a single string, or an ordered list of
// items.
//
// The zero value is the empty single string.
type Content struct {
	text  string
	items []Item
	list  bool
}

// String returns single-string content.
func String(s string) Content {
	return Content{text: s}
}

// List returns list-shaped content.
func List(items ...Item) Content {
	cp := make([]Item, len(items))
	copy(cp, items)
	return Content{items: cp, list: true}
}

// Strings is a convenience for list content made only of plain strings.
func Strings(ss ...string) Content {
	items := make([]Item, 0, len(ss))
	for _, s := range ss {
		items = append(items, Text(s))
	}
	return Content{items: items, list: true}
}

// IsList reports whether the content is list-shaped.
func (c Content) IsList() bool { return c.list }

// Text returns the single string. It is empty for list content.
func (c Content) Text() string { return c.text }

// Len returns the number of list items, or 1 for single-string content.
func (c Content) Len() int {
	if !c.list {
		return 1
	}
	return len(c.items)
}

// Items returns a copy of the list items.
func (c Content) Items() []Item {
	cp := make([]Item, len(c.items))
	copy(cp, c.items)
	return cp
}

// Item returns the i-th list item.
func (c Content) Item(i int) Item { return c.items[i] }

// Tuple views list content as a flat tuple of strings, which is how
// correction mode reads it: ["Helo", "Hello"].
func (c Content) Tuple() []string {
	if !c.list {
		return []string{c.text}
	}
	out := make([]string, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it.First())
	}
	return out
}

// Narrow reduces list content to its first element as a single string.
// Empty lists narrow to FallbackContent. Single-string content is
// returned unchanged.
func (c Content) Narrow() Content {
	if !c.list {
		return c
	}
	if len(c.items) == 0 {
		return String(FallbackContent)
	}
	return String(c.items[0].First())
}
