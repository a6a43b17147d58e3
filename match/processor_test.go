package match

import "testing"

func TestProcessorDispatchesByID(t *testing.T) {
	var got []int
	p := NewProcessor(5)
	p.On(1, func(m *Match) error { got = append(got, m.ProducerID); return nil })
	p.On(2, func(m *Match) error { got = append(got, m.ProducerID); return nil })

	a := New(WordKind, 1, "a", 0, 1, 1)
	b := New(WordKind, 2, "b", 1, 1, 1)
	a.Next = b

	if err := p.Process(a); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("expected callbacks to fire in sibling order [1 2], got %v", got)
	}
}

func TestProcessorFallsBackToDescendingIntoChildren(t *testing.T) {
	var visited []int
	p := NewProcessor(5)
	p.On(2, func(m *Match) error { visited = append(visited, m.ProducerID); return nil })

	leaf := New(WordKind, 2, "leaf", 1, 1, 1)
	parent := New(RuleKind, 1, "parent", 0, 1, 1) // no callback registered for id 1
	parent.Children = leaf

	if err := p.Process(parent); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(visited) != 1 || visited[0] != 2 {
		t.Fatalf("expected the default fallback to descend into Children and find id 2, got %v", visited)
	}
}

func TestProcessorExplicitFallbackOverridesDescent(t *testing.T) {
	var fallbackIDs []int
	p := NewProcessor(5)
	p.Fallback(func(m *Match) error { fallbackIDs = append(fallbackIDs, m.ProducerID); return nil })

	leaf := New(WordKind, 2, "leaf", 1, 1, 1)
	parent := New(RuleKind, 1, "parent", 0, 1, 1)
	parent.Children = leaf

	if err := p.Process(parent); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if len(fallbackIDs) != 1 || fallbackIDs[0] != 1 {
		t.Fatalf("expected the explicit fallback to run for the parent without descending automatically, got %v", fallbackIDs)
	}
}

func TestProcessorSkipsFailureNodes(t *testing.T) {
	p := NewProcessor(5)
	called := false
	p.On(1, func(m *Match) error { called = true; return nil })
	if err := p.Process(FAILURE); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if called {
		t.Errorf("the failure sentinel must never dispatch a callback")
	}
}

func TestProcessorOnGrowsCallbackTable(t *testing.T) {
	p := NewProcessor(0)
	called := false
	p.On(10, func(m *Match) error { called = true; return nil })
	m := New(WordKind, 10, "x", 0, 1, 1)
	if err := p.Process(m); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !called {
		t.Errorf("expected On() to grow the callback table to accommodate id 10")
	}
}

func TestTokenGroupHelpers(t *testing.T) {
	m := New(TokenKind, 1, "NUM", 0, 3, 1)
	m.Data = &TokenData{Groups: []string{"123", "1"}}
	if TokenGroupCount(m) != 2 {
		t.Fatalf("expected 2 groups, got %d", TokenGroupCount(m))
	}
	if TokenGroup(m, 0) != "123" {
		t.Errorf("expected group 0 == 123, got %q", TokenGroup(m, 0))
	}
	if TokenGroup(m, 5) != "" {
		t.Errorf("expected out-of-range group access to return empty string")
	}
	notToken := New(WordKind, 2, "w", 0, 1, 1)
	if TokenGroupCount(notToken) != 0 {
		t.Errorf("expected 0 groups for a non-Token match")
	}
}
