// Package store defines the durable key-value contract the list is
// persisted into, plus the codec for the persisted item list itself.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ItemsKey is the single well-known key holding the persisted list.
const ItemsKey = "items"

// ErrMalformed is returned when the value under ItemsKey is not a JSON
// array of strings.
var ErrMalformed = errors.New("store: malformed item list")

// KV is a string-keyed, string-valued durable store.
// Get reports ok=false for an absent key; that is not an error.
type KV interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
}

// LoadLabels reads the persisted list. An absent key and an empty value
// both yield an empty, non-nil slice. A null element is ErrMalformed.
func LoadLabels(kv KV) ([]string, error) {
	raw, ok, err := kv.Get(ItemsKey)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", ItemsKey, err)
	}
	if !ok || raw == "" {
		return []string{}, nil
	}
	var elems []*string
	if err := json.Unmarshal([]byte(raw), &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	labels := make([]string, 0, len(elems))
	for i, e := range elems {
		if e == nil {
			return nil, fmt.Errorf("%w: null at index %d", ErrMalformed, i)
		}
		labels = append(labels, *e)
	}
	return labels, nil
}

// SaveLabels overwrites the persisted list as a whole.
func SaveLabels(kv KV, labels []string) error {
	if labels == nil {
		labels = []string{}
	}
	b, err := json.Marshal(labels)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	if err := kv.Set(ItemsKey, string(b)); err != nil {
		return fmt.Errorf("set %s: %w", ItemsKey, err)
	}
	return nil
}

// AppendLabel adds label to the end of the persisted list.
func AppendLabel(kv KV, label string) error {
	labels, err := LoadLabels(kv)
	if err != nil {
		return err
	}
	return SaveLabels(kv, append(labels, label))
}

// RemoveFirstLabel drops the first persisted entry equal to label.
// Matching is by value, so with duplicate labels the earliest one goes
// regardless of which rendered entry the caller removed.
func RemoveFirstLabel(kv KV, label string) (bool, error) {
	labels, err := LoadLabels(kv)
	if err != nil {
		return false, err
	}
	for i, l := range labels {
		if l == label {
			labels = append(labels[:i], labels[i+1:]...)
			return true, SaveLabels(kv, labels)
		}
	}
	return false, nil
}

// ClearLabels removes the key entirely rather than storing an empty list.
func ClearLabels(kv KV) error {
	if err := kv.Delete(ItemsKey); err != nil {
		return fmt.Errorf("delete %s: %w", ItemsKey, err)
	}
	return nil
}
