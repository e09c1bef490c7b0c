package konl

import "testing"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestEngineIndexReopenReturnsSameHandle(t *testing.T) {
	e := newTestEngine(t)

	idx1, err := e.Index("reviews")
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	idx2, err := e.Index("reviews")
	if err != nil {
		t.Fatalf("Index (second call): %v", err)
	}
	if idx1 != idx2 {
		t.Error("Engine.Index returned a different handle for the same name")
	}
}

func TestEngineListIndexes(t *testing.T) {
	e := newTestEngine(t)

	for _, name := range []string{"reviews", "products"} {
		if _, err := e.Index(name); err != nil {
			t.Fatalf("Index(%q): %v", name, err)
		}
	}

	names, err := e.ListIndexes()
	if err != nil {
		t.Fatalf("ListIndexes: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("ListIndexes = %v, want 2 entries", names)
	}
}

func TestEngineSurvivesCloseAndReopen(t *testing.T) {
	path := t.TempDir()

	e1, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	idx1, err := e1.Index("reviews")
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	id, created, err := idx1.Index("정말 좋은 제품입니다")
	if err != nil {
		t.Fatalf("Index(doc): %v", err)
	}
	if !created {
		t.Fatal("Index(doc) created = false, want true")
	}
	if err := e1.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	e2, err := Open(path)
	if err != nil {
		t.Fatalf("Open (reopen): %v", err)
	}
	t.Cleanup(func() { _ = e2.Close() })

	idx2, err := e2.Index("reviews")
	if err != nil {
		t.Fatalf("Index (reopen): %v", err)
	}
	doc, ok, err := idx2.Get(id)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if !ok {
		t.Fatal("Get after reopen: document not found, want it to survive the reopen")
	}
	if doc.Text != "정말 좋은 제품입니다" {
		t.Errorf("Get after reopen = %q, want original text", doc.Text)
	}

	ids, err := idx2.Search([]string{"정말"}, OR)
	if err != nil {
		t.Fatalf("Search after reopen: %v", err)
	}
	if len(ids) != 1 || ids[0] != id {
		t.Errorf("Search after reopen = %v, want [%d]", ids, id)
	}
}

func TestEngineCloseRejectsFurtherUse(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.Index("reviews"); err != nil {
		t.Fatalf("Index: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, err := e.Index("reviews"); err != ErrClosed {
		t.Errorf("Index after Close = %v, want ErrClosed", err)
	}
}
