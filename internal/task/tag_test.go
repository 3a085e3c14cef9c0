package task

import "testing"

func TestTagString(t *testing.T) {
	tests := []struct {
		tag  Tag
		want string
		name string
	}{
		{tag: NewProjectTag("foo", 0, 2), want: "+foo", name: "foo"},
		{tag: NewContextTag("foo", 0, 2), want: "@foo", name: "foo"},
		{tag: NewKeyValueTag("due", "2020-10-02", 0, 2), want: "due:2020-10-02", name: "due"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.tag.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if got := tt.tag.Name(); got != tt.name {
				t.Errorf("Name() = %q, want %q", got, tt.name)
			}
			if tt.tag.Start() != 0 || tt.tag.End() != 2 {
				t.Errorf("span = [%d,%d), want [0,2)", tt.tag.Start(), tt.tag.End())
			}
		})
	}
}

func TestKeyValueTagAccessors(t *testing.T) {
	kv := NewKeyValueTag("due", "2020-10-02", 3, 18)
	if kv.Key() != "due" || kv.Value() != "2020-10-02" {
		t.Errorf("Key(), Value() = %q, %q", kv.Key(), kv.Value())
	}
}
