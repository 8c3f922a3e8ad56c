package domain

import "testing"

func tasksNamed(names ...string) []Task {
	out := make([]Task, len(names))
	for i, n := range names {
		out[i] = Task{Text: n}
	}
	return out
}

func TestBuildViewTruncatesToVisibleCount(t *testing.T) {
	tasks := tasksNamed("a", "b", "c", "d", "e")

	view := BuildView(tasks, false)
	if len(view.Items) != 3 {
		t.Fatalf("expected 3 rendered items, got %d", len(view.Items))
	}
	if !view.ShowMore {
		t.Error("expected view more affordance")
	}
	if view.Total != 5 {
		t.Errorf("expected total 5, got %d", view.Total)
	}

	full := BuildView(tasks, true)
	if len(full.Items) != 5 {
		t.Fatalf("expected 5 rendered items, got %d", len(full.Items))
	}
	if full.ShowMore {
		t.Error("expected no view more affordance on full list")
	}
}

func TestBuildViewShortListHasNoAffordance(t *testing.T) {
	for n := 0; n <= VisibleTaskCount; n++ {
		view := BuildView(make([]Task, n), false)
		if len(view.Items) != n {
			t.Errorf("len %d: expected %d items, got %d", n, n, len(view.Items))
		}
		if view.ShowMore {
			t.Errorf("len %d: unexpected view more affordance", n)
		}
	}
}

func TestBuildViewCarriesOriginalPositions(t *testing.T) {
	tasks := tasksNamed("same", "same", "other", "same")

	for _, full := range []bool{false, true} {
		view := BuildView(tasks, full)
		for i, item := range view.Items {
			if item.Position != i {
				t.Errorf("full=%v: item %d carries position %d", full, i, item.Position)
			}
			if item.Task != tasks[item.Position] {
				t.Errorf("full=%v: item %d does not match task at its position", full, i)
			}
		}
	}
}
