package task

import (
	"fmt"
	"strings"

	"github.com/twiced-technology-gmbh/tada/internal/date"
)

// PriorityPolicy decides what happens to a priority when a task is completed.
type PriorityPolicy string

// Priority policies.
const (
	PriorityKeep PriorityPolicy = "keep"
	PriorityDrop PriorityPolicy = "drop"
	PriorityTag  PriorityPolicy = "tag" // moved into a pri:X tag
)

// priorityKey is the key used by PriorityTag.
const priorityKey = "pri"

// ParsePriorityPolicy validates a policy name from config or flags.
func ParsePriorityPolicy(s string) (PriorityPolicy, error) {
	switch p := PriorityPolicy(strings.ToLower(s)); p {
	case PriorityKeep, PriorityDrop, PriorityTag:
		return p, nil
	case "":
		return PriorityKeep, nil
	default:
		return "", fmt.Errorf("unknown priority policy %q (want keep, drop or tag)", s)
	}
}

// Complete returns a completed copy of t. The completion date is only
// written when t has a creation date; a lone date would be read back as the
// creation date. Completing a completed task returns an unchanged copy.
func Complete(t *Task, today date.Date, policy PriorityPolicy) (*Task, error) {
	if t.Completed() {
		return t.clone(), nil
	}
	opts := []Option{WithCompleted(true)}
	if t.HasCreationDate() {
		opts = append(opts, WithCompletionDate(today))
	}
	switch policy {
	case PriorityDrop:
		opts = append(opts, WithPriority(""))
	case PriorityTag:
		if t.HasPriority() {
			opts = append(opts,
				WithPriority(""),
				WithDescription(appendWord(t.Description(), priorityKey+":"+t.Priority())))
		}
	}
	return t.With(opts...)
}

// Reopen returns an open copy of t with the completion date removed. A
// priority stashed in a pri:X tag is restored.
func Reopen(t *Task) (*Task, error) {
	opts := []Option{WithCompleted(false), WithoutCompletionDate()}
	for kv := range t.KeyValueTagsSeq() {
		if kv.Key() != priorityKey || !IsPriority(kv.Value()) {
			continue
		}
		desc := t.Description()
		// The tag span starts at the whitespace before the key.
		desc = desc[:kv.Start()] + desc[kv.End():]
		opts = append(opts, WithPriority(kv.Value()), WithDescription(desc))
		break
	}
	return t.With(opts...)
}

// Reprioritize returns a copy of t with priority p; "" removes it.
func Reprioritize(t *Task, p string) (*Task, error) {
	return t.With(WithPriority(p))
}

func appendWord(s, word string) string {
	if s == "" {
		return " " + word
	}
	return s + " " + word
}
