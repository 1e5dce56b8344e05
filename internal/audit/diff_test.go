package audit

import (
	"testing"
	"time"
)

type diffDoc struct {
	ID         uint      `json:"id"`
	DocumentNo string    `json:"document_no"`
	Notes      string    `json:"notes"`
	ExpiryDate time.Time `json:"expiry_date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func TestComputeChanges_CreateAndDelete(t *testing.T) {
	doc := diffDoc{ID: 1, DocumentNo: "INS-001"}

	if got := ComputeChanges(nil, doc); len(got) != 0 {
		t.Errorf("create diff = %v, want empty", got)
	}
	if got := ComputeChanges(doc, nil); len(got) != 0 {
		t.Errorf("delete diff = %v, want empty", got)
	}

	var missing *diffDoc
	if got := ComputeChanges(missing, doc); len(got) != 0 {
		t.Errorf("nil-pointer create diff = %v, want empty", got)
	}
}

func TestComputeChanges_IgnoresHousekeepingFields(t *testing.T) {
	before := diffDoc{ID: 1, DocumentNo: "INS-001", UpdatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	after := diffDoc{ID: 1, DocumentNo: "INS-001", UpdatedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)}

	if got := ComputeChanges(before, after); len(got) != 0 {
		t.Errorf("diff = %v, want empty when only updated_at differs", got)
	}
}

func TestComputeChanges_FieldChange(t *testing.T) {
	before := diffDoc{ID: 1, DocumentNo: "INS-001"}
	after := diffDoc{ID: 1, DocumentNo: "INS-002"}

	got := ComputeChanges(before, after)
	if len(got) != 1 {
		t.Fatalf("diff has %d entries, want 1: %v", len(got), got)
	}
	change, ok := got["document_no"]
	if !ok {
		t.Fatalf("diff %v missing document_no", got)
	}
	if change.From != "INS-001" || change.To != "INS-002" {
		t.Errorf("document_no change = %+v, want INS-001 -> INS-002", change)
	}
}

func TestComputeChanges_MapSnapshots(t *testing.T) {
	before := map[string]any{"notes": "old", "link": nil}
	after := map[string]any{"notes": "new"}

	got := ComputeChanges(before, after)
	if len(got) != 1 {
		t.Fatalf("diff has %d entries, want 1: %v", len(got), got)
	}
	if got["notes"].From != "old" || got["notes"].To != "new" {
		t.Errorf("notes change = %+v", got["notes"])
	}
	// link was null on both sides once normalized; no entry expected
	if _, ok := got["link"]; ok {
		t.Errorf("diff %v should not contain link", got)
	}
}

func TestComputeChanges_AddedField(t *testing.T) {
	before := map[string]any{"notes": "x"}
	after := map[string]any{"notes": "x", "link": "https://example.com/scan.pdf"}

	got := ComputeChanges(before, after)
	change, ok := got["link"]
	if !ok {
		t.Fatalf("diff %v missing link", got)
	}
	if change.From != nil {
		t.Errorf("added field From = %v, want nil", change.From)
	}
	if change.To != "https://example.com/scan.pdf" {
		t.Errorf("added field To = %v", change.To)
	}
}
