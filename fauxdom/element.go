// Package fauxdom renders Element trees into a pluggable host through the
// fiber engine. It supplies the begin, complete and commit collaborators
// the engine leaves abstract.
package fauxdom

// A is shorthand for an attribute map literal.
type A = map[string]string

// Element is one desired node. A Kind of "" makes it a text run, in which
// case Attrs and Kids are ignored.
type Element struct {
	Kind  string
	Key   string
	Attrs map[string]string
	Text  string
	Kids  []Element
}

// El describes an unkeyed element.
func El(kind string, attrs A, kids ...Element) Element {
	return Element{Kind: kind, Attrs: attrs, Kids: kids}
}

// Keyed describes an element matched across renders by key instead of
// position.
func Keyed(kind, key string, attrs A, kids ...Element) Element {
	return Element{Kind: kind, Key: key, Attrs: attrs, Kids: kids}
}

// Text describes a text run.
func Text(text string) Element {
	return Element{Text: text}
}

func (e Element) isText() bool {
	return e.Kind == ""
}
