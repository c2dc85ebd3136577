// util/util_test.go
// Copyright(c) 2022-2024 vice contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"errors"
	"slices"
	"testing"
)

func TestSortedMapKeys(t *testing.T) {
	m := map[uint32]string{7: "seven", 1: "one", 3: "three"}
	if k := SortedMapKeys(m); !slices.Equal(k, []uint32{1, 3, 7}) {
		t.Errorf("got %v, expected [1 3 7]", k)
	}
}

func TestReduce(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	if s := ReduceMap(m, func(_ string, v int, total int) int { return total + v }, 10); s != 16 {
		t.Errorf("ReduceMap: got %d, expected 16", s)
	}
}

func TestErrorLogger(t *testing.T) {
	var e ErrorLogger
	if e.HaveErrors() {
		t.Errorf("empty ErrorLogger reports errors")
	}
	e.Push("window")
	e.Push("size")
	e.ErrorString("width %d must be positive", -3)
	e.Pop()
	e.Error(errors.New("bad position"))
	e.Pop()

	if !e.HaveErrors() {
		t.Errorf("expected errors")
	}
	expect := "window / size: width -3 must be positive\nwindow: bad position"
	if e.String() != expect {
		t.Errorf("got %q, expected %q", e.String(), expect)
	}
}
