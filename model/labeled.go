package model

import (
	"fmt"
	"sort"
	"strings"
)

// LabeledContainer routes named values between composed transforms: a mapping
// from string label to data array that preserves label insertion order. Access
// is uniformly by key; labels carry no other semantics.
type LabeledContainer struct {
	labels []string
	values map[string]*Array
}

// NewLabeledContainer builds a container from parallel label/value slices.
// Labels are whitespace-trimmed. The slices must have the same length.
func NewLabeledContainer(labels []string, values []*Array) (*LabeledContainer, error) {
	if len(labels) != len(values) {
		return nil, fmt.Errorf("%w: number of labels (%d) and values (%d) doesn't match",
			ErrUnsupported, len(labels), len(values))
	}
	c := &LabeledContainer{values: make(map[string]*Array, len(labels))}
	for i, label := range labels {
		c.put(strings.TrimSpace(label), values[i])
	}
	return c, nil
}

func (c *LabeledContainer) put(label string, v *Array) {
	if _, ok := c.values[label]; !ok {
		c.labels = append(c.labels, label)
	}
	c.values[label] = v
}

// Labels returns the labels in insertion order.
func (c *LabeledContainer) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Len returns the number of labeled values.
func (c *LabeledContainer) Len() int { return len(c.labels) }

// Has reports whether the container holds the label.
func (c *LabeledContainer) Has(label string) bool {
	_, ok := c.values[label]
	return ok
}

// Get returns the value stored under label.
func (c *LabeledContainer) Get(label string) (*Array, error) {
	v, ok := c.values[label]
	if !ok {
		return nil, fmt.Errorf("%w: no value labeled %q", ErrInputParameter, label)
	}
	return v, nil
}

// Set stores a value under label, appending the label if new.
func (c *LabeledContainer) Set(label string, v *Array) {
	c.put(strings.TrimSpace(label), v)
}

// Remove drops a label and its value. Removing an absent label is a no-op.
func (c *LabeledContainer) Remove(label string) {
	if _, ok := c.values[label]; !ok {
		return
	}
	delete(c.values, label)
	for i, l := range c.labels {
		if l == label {
			c.labels = append(c.labels[:i], c.labels[i+1:]...)
			break
		}
	}
}

// Add merges the given label/value pairs into the container. Iteration over
// the map is ordered by label for determinism of newly appended labels.
func (c *LabeledContainer) Add(values map[string]*Array) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		c.put(strings.TrimSpace(k), values[k])
	}
}

// AddValue stores a single labeled value, appending the label if new.
func (c *LabeledContainer) AddValue(label string, v *Array) {
	c.Set(label, v)
}

// Copy returns an independent container with the same labels and the same
// array references. Array contents are shared, not deep-copied.
func (c *LabeledContainer) Copy() *LabeledContainer {
	out := &LabeledContainer{
		labels: append([]string(nil), c.labels...),
		values: make(map[string]*Array, len(c.values)),
	}
	for k, v := range c.values {
		out.values[k] = v
	}
	return out
}
