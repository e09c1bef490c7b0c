package konl

import "testing"

func TestBatchWriterCommitsAllDocuments(t *testing.T) {
	idx, _ := newTestEngine(t).Index("reviews")

	w, err := idx.ToBatch()
	if err != nil {
		t.Fatalf("ToBatch: %v", err)
	}

	id1, created1, err := w.Index("quick brown fox")
	if err != nil {
		t.Fatalf("batch Index: %v", err)
	}
	id2, created2, err := w.Index("lazy dog")
	if err != nil {
		t.Fatalf("batch Index: %v", err)
	}
	if !created1 || !created2 {
		t.Fatalf("batch Index reported created=(%v, %v), want (true, true)", created1, created2)
	}

	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	n, err := idx.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 2 {
		t.Fatalf("Len after Commit = %d, want 2", n)
	}

	if _, ok, err := idx.Get(id1); err != nil || !ok {
		t.Errorf("Get(id1) after Commit = ok=%v, err=%v", ok, err)
	}
	if _, ok, err := idx.Get(id2); err != nil || !ok {
		t.Errorf("Get(id2) after Commit = ok=%v, err=%v", ok, err)
	}
}

func TestBatchWriterDedupesWithinBatch(t *testing.T) {
	idx, _ := newTestEngine(t).Index("reviews")

	w, err := idx.ToBatch()
	if err != nil {
		t.Fatalf("ToBatch: %v", err)
	}

	id1, _, err := w.Index("quick brown fox")
	if err != nil {
		t.Fatalf("batch Index: %v", err)
	}
	id2, created2, err := w.Index("quick brown fox")
	if err != nil {
		t.Fatalf("batch Index (duplicate): %v", err)
	}
	if created2 {
		t.Error("duplicate within the same batch should report created=false")
	}
	if id1 != id2 {
		t.Errorf("duplicate within the same batch returned different ids: %d != %d", id1, id2)
	}

	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	n, err := idx.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 1 {
		t.Fatalf("Len after committing a within-batch duplicate = %d, want 1", n)
	}
}

func TestBatchWriterDeleteWithinBatchIsIdempotent(t *testing.T) {
	idx, _ := newTestEngine(t).Index("reviews")
	id, _, err := idx.Index("quick brown fox")
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	w, err := idx.ToBatch()
	if err != nil {
		t.Fatalf("ToBatch: %v", err)
	}
	if err := w.Delete(id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := w.Delete(id); err != nil {
		t.Fatalf("second Delete of the same id within a batch: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	n, err := idx.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 0 {
		t.Fatalf("Len after batch Delete = %d, want 0", n)
	}
}

func TestBatchWriterRollbackLeavesStoreUntouched(t *testing.T) {
	idx, _ := newTestEngine(t).Index("reviews")

	w, err := idx.ToBatch()
	if err != nil {
		t.Fatalf("ToBatch: %v", err)
	}
	if _, _, err := w.Index("quick brown fox"); err != nil {
		t.Fatalf("batch Index: %v", err)
	}
	w.Rollback()

	n, err := idx.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if n != 0 {
		t.Fatalf("Len after Rollback = %d, want 0", n)
	}
}

func TestBatchWriterNetLengthDeltaAppliesOnce(t *testing.T) {
	idx, _ := newTestEngine(t).Index("reviews")
	existing, _, err := idx.Index("existing doc")
	if err != nil {
		t.Fatalf("Index: %v", err)
	}

	w, err := idx.ToBatch()
	if err != nil {
		t.Fatalf("ToBatch: %v", err)
	}
	if _, _, err := w.Index("new doc one"); err != nil {
		t.Fatalf("batch Index: %v", err)
	}
	if _, _, err := w.Index("new doc two"); err != nil {
		t.Fatalf("batch Index: %v", err)
	}
	if err := w.Delete(existing); err != nil {
		t.Fatalf("batch Delete: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	n, err := idx.Len()
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	// 1 existing - 1 deleted + 2 indexed = 2.
	if n != 2 {
		t.Fatalf("Len after mixed batch = %d, want 2", n)
	}
}
