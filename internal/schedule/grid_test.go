package schedule

import "testing"

func TestGridTimes(t *testing.T) {
	got := GridTimes(480, 540, 15)
	want := []int{480, 495, 510, 525}

	if len(got) != len(want) {
		t.Fatalf("got %d cells, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("cell %d = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestGridTimesExcludesClosing(t *testing.T) {
	// 08:00-18:00 at 15-minute steps: the 18:00 bound is not a cell.
	got := GridTimes(480, 1080, 15)
	if len(got) != 40 {
		t.Fatalf("got %d cells, want 40", len(got))
	}
	if last := got[len(got)-1]; last != 1065 {
		t.Fatalf("last cell = %s, want 17:45", FormatMinutes(last))
	}
}

func TestGridTimesDegenerate(t *testing.T) {
	if got := GridTimes(600, 600, 15); got != nil {
		t.Fatalf("empty window should yield no cells, got %v", got)
	}
	if got := GridTimes(600, 540, 15); got != nil {
		t.Fatalf("inverted window should yield no cells, got %v", got)
	}
	if got := GridTimes(480, 600, 0); got != nil {
		t.Fatalf("non-positive step should yield no cells, got %v", got)
	}
}

func TestTimesIsRestartable(t *testing.T) {
	seq := Times(480, 540, 15)

	var first, second int
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first != second || first != 4 {
		t.Fatalf("sequence not restartable: first pass %d, second pass %d", first, second)
	}
}
