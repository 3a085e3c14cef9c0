package task

// Tag is an inline annotation recognized inside a task description.
//
// Start and End are byte offsets into the description the tag was extracted
// from. The span covers the whole match, including the whitespace that
// precedes the tag. Offsets go stale if the description changes.
type Tag interface {
	Name() string
	Start() int
	End() int
	String() string
}

type span struct {
	name  string
	start int
	end   int
}

func (s span) Name() string { return s.name }
func (s span) Start() int   { return s.start }
func (s span) End() int     { return s.end }

// ProjectTag is a "+project" tag.
type ProjectTag struct{ span }

// NewProjectTag creates a ProjectTag.
func NewProjectTag(name string, start, end int) ProjectTag {
	return ProjectTag{span{name: name, start: start, end: end}}
}

// String renders the tag as "+name".
func (t ProjectTag) String() string { return "+" + t.name }

// ContextTag is an "@context" tag.
type ContextTag struct{ span }

// NewContextTag creates a ContextTag.
func NewContextTag(name string, start, end int) ContextTag {
	return ContextTag{span{name: name, start: start, end: end}}
}

// String renders the tag as "@name".
func (t ContextTag) String() string { return "@" + t.name }

// KeyValueTag is a "key:value" tag. Its Name is the key.
type KeyValueTag struct {
	span
	value string
}

// NewKeyValueTag creates a KeyValueTag.
func NewKeyValueTag(key, value string, start, end int) KeyValueTag {
	return KeyValueTag{span: span{name: key, start: start, end: end}, value: value}
}

// Key returns the tag key.
func (t KeyValueTag) Key() string { return t.name }

// Value returns the tag value.
func (t KeyValueTag) Value() string { return t.value }

// String renders the tag as "key:value".
func (t KeyValueTag) String() string { return t.name + ":" + t.value }

// The helpers below build tags from regexp.FindAllStringSubmatchIndex results:
// loc[0:2] is the whole match, loc[2:4] the first capture, loc[4:6] the second.

func projectTagFromMatch(s string, loc []int) ProjectTag {
	return NewProjectTag(s[loc[2]:loc[3]], loc[0], loc[1])
}

func contextTagFromMatch(s string, loc []int) ContextTag {
	return NewContextTag(s[loc[2]:loc[3]], loc[0], loc[1])
}

func keyValueTagFromMatch(s string, loc []int) KeyValueTag {
	return NewKeyValueTag(s[loc[2]:loc[3]], s[loc[4]:loc[5]], loc[0], loc[1])
}
