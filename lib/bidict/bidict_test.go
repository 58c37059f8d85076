// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package bidict

import (
	"errors"
	"slices"
	"testing"
)

func TestSetIsSymmetric(t *testing.T) {
	d := New[int, string]()
	d.Set(17, "udp")

	value, err := d.Get(17)
	if err != nil || value != "udp" {
		t.Fatalf("Get(17) = %q, %v", value, err)
	}
	key, err := d.Key("udp")
	if err != nil || key != 17 {
		t.Fatalf("Key(udp) = %d, %v", key, err)
	}
}

func TestSetReplacesStaleEntries(t *testing.T) {
	d := New[int, string]()
	d.Set(17, "udp")
	d.Set(17, "udp-lite")

	if _, err := d.Key("udp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Key(udp) after rebinding 17: err = %v, want ErrNotFound", err)
	}
	if value, _ := d.Get(17); value != "udp-lite" {
		t.Errorf("Get(17) = %q, want udp-lite", value)
	}

	// Rebinding the value to a new key drops the old key.
	d.Set(136, "udp-lite")
	if _, err := d.Get(17); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(17) after moving value: err = %v, want ErrNotFound", err)
	}
	if key, _ := d.Key("udp-lite"); key != 136 {
		t.Errorf("Key(udp-lite) = %d, want 136", key)
	}
	if d.Len() != 1 {
		t.Errorf("Len = %d, want 1", d.Len())
	}
}

func TestWithDuplicatesKeepsReverseEntries(t *testing.T) {
	d := NewWithDuplicates[int, string]()
	d.Set(1, "a")
	d.Set(2, "a")

	if value, _ := d.Get(1); value != "a" {
		t.Errorf("Get(1) = %q, want a", value)
	}
	if value, _ := d.Get(2); value != "a" {
		t.Errorf("Get(2) = %q, want a", value)
	}
	if key, _ := d.Key("a"); key != 2 {
		t.Errorf("Key(a) = %d, want 2 (most recent)", key)
	}
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
}

func TestMissingLookups(t *testing.T) {
	d := New[string, int]()
	if _, err := d.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get error = %v, want ErrNotFound", err)
	}
	if _, err := d.Key(5); !errors.Is(err, ErrNotFound) {
		t.Errorf("Key error = %v, want ErrNotFound", err)
	}
	if _, ok := d.Lookup("missing"); ok {
		t.Error("Lookup reported a missing key as present")
	}
}

func TestDeleteAndKeysOrder(t *testing.T) {
	d := New[int, string]()
	d.Set(3, "c")
	d.Set(1, "a")
	d.Set(2, "b")
	d.Delete(1)

	if got, want := d.Keys(), []int{3, 2}; !slices.Equal(got, want) {
		t.Errorf("Keys = %v, want %v", got, want)
	}
	if _, ok := d.LookupKey("a"); ok {
		t.Error("reverse entry survived Delete")
	}
	d.Delete(42) // no-op
	if d.Len() != 2 {
		t.Errorf("Len = %d, want 2", d.Len())
	}
}

func TestResetKeyListedOnce(t *testing.T) {
	for name, d := range map[string]*Bidict[string, int]{
		"unique":     New[string, int](),
		"duplicates": NewWithDuplicates[string, int](),
	} {
		t.Run(name, func(t *testing.T) {
			d.Set("a", 1)
			d.Set("b", 2)
			d.Set("a", 3)
			d.Set("a", 3)

			keys := d.Keys()
			if len(keys) != d.Len() {
				t.Fatalf("Keys = %v, Len = %d", keys, d.Len())
			}
			slices.Sort(keys)
			if !slices.Equal(keys, []string{"a", "b"}) {
				t.Errorf("Keys = %v, want a and b once each", keys)
			}
			if value, _ := d.Get("a"); value != 3 {
				t.Errorf("Get(a) = %d, want 3", value)
			}
		})
	}
}
