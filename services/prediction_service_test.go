package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"drought-watch-api/models"
	"drought-watch-api/store"
)

var (
	adminCaller  = Identity{UserID: 1, Email: "admin@droughtwatch.org", Role: models.RoleAdmin}
	editorCaller = Identity{UserID: 2, Email: "editor@droughtwatch.org", Role: models.RoleEditor}
	viewerCaller = Identity{UserID: 3, Email: "viewer@droughtwatch.org", Role: models.RoleViewer}
)

func newTestService() *PredictionService {
	return NewPredictionService(store.NewMemoryStore())
}

func mustCreate(t *testing.T, svc *PredictionService, title string, severity string, date string) *models.Prediction {
	t.Helper()
	p, err := svc.Create(context.Background(), adminCaller, CreatePredictionInput{
		Title:          title,
		Content:        "content for " + title,
		PredictionDate: date,
		SeverityLevel:  severity,
	})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", title, err)
	}
	return p
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	svc := newTestService()

	created, err := svc.Create(context.Background(), adminCaller, CreatePredictionInput{
		Title:          "  Central Valley Outlook  ",
		Content:        "Reservoir levels expected to fall below 40% capacity.",
		PredictionDate: "2024-05-15",
		SeverityLevel:  "high",
		Attachments:    []string{"map.pdf"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == 0 {
		t.Error("created record should have an assigned id")
	}
	if created.Title != "Central Valley Outlook" {
		t.Errorf("Title = %q, want trimmed %q", created.Title, "Central Valley Outlook")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("timestamps should be set by the store")
	}

	got, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Title != created.Title || got.Content != created.Content {
		t.Errorf("Get returned %+v, want %+v", got, created)
	}
	if got.SeverityLevel != models.SeverityHigh {
		t.Errorf("SeverityLevel = %q, want high", got.SeverityLevel)
	}
	if len(got.Attachments) != 1 || got.Attachments[0] != "map.pdf" {
		t.Errorf("Attachments = %v, want [map.pdf]", got.Attachments)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), adminCaller, CreatePredictionInput{
		Title:          "   ",
		Content:        "",
		PredictionDate: "not-a-date",
		SeverityLevel:  "catastrophic",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Create error = %v, want ValidationError", err)
	}
	for _, field := range []string{"title", "content", "prediction_date", "severity_level"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("ValidationError missing field %q: %v", field, verr.Fields)
		}
	}

	// Nothing was written
	page, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalCount != 0 {
		t.Errorf("TotalCount = %d after rejected create, want 0", page.TotalCount)
	}
}

func TestCreateRejectsOutOfEnumSeverity(t *testing.T) {
	svc := newTestService()

	_, err := svc.Create(context.Background(), adminCaller, CreatePredictionInput{
		Title:          "T",
		Content:        "C",
		PredictionDate: "2024-05-15",
		SeverityLevel:  "catastrophic",
	})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if _, ok := verr.Fields["severity_level"]; !ok {
		t.Errorf("fields = %v, want severity_level entry", verr.Fields)
	}
}

func TestMutationsRequireAdmin(t *testing.T) {
	svc := newTestService()
	existing := mustCreate(t, svc, "Existing", "low", "2024-01-01")

	input := CreatePredictionInput{
		Title:          "T",
		Content:        "C",
		PredictionDate: "2024-05-15",
		SeverityLevel:  "high",
	}

	for _, caller := range []Identity{editorCaller, viewerCaller, {}} {
		if _, err := svc.Create(context.Background(), caller, input); !errors.Is(err, ErrForbidden) {
			t.Errorf("Create as %q: error = %v, want ErrForbidden", caller.Role, err)
		}
		// Forbidden regardless of whether the id exists
		if _, err := svc.Update(context.Background(), caller, existing.ID, UpdatePredictionInput{}); !errors.Is(err, ErrForbidden) {
			t.Errorf("Update as %q: error = %v, want ErrForbidden", caller.Role, err)
		}
		if _, err := svc.Update(context.Background(), caller, 9999, UpdatePredictionInput{}); !errors.Is(err, ErrForbidden) {
			t.Errorf("Update of missing id as %q: error = %v, want ErrForbidden", caller.Role, err)
		}
		if err := svc.Delete(context.Background(), caller, 9999); !errors.Is(err, ErrForbidden) {
			t.Errorf("Delete of missing id as %q: error = %v, want ErrForbidden", caller.Role, err)
		}
	}

	// The record survived all of it
	if _, err := svc.Get(context.Background(), existing.ID); err != nil {
		t.Errorf("existing record should be untouched: %v", err)
	}
}

func TestUpdatePartialPreservesFields(t *testing.T) {
	svc := newTestService()
	created := mustCreate(t, svc, "T", "high", "2024-05-15")

	time.Sleep(5 * time.Millisecond)

	sev := "extreme"
	updated, err := svc.Update(context.Background(), adminCaller, created.ID, UpdatePredictionInput{
		SeverityLevel: &sev,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	if updated.SeverityLevel != models.SeverityExtreme {
		t.Errorf("SeverityLevel = %q, want extreme", updated.SeverityLevel)
	}
	if updated.Title != "T" {
		t.Errorf("Title = %q, want unchanged %q", updated.Title, "T")
	}
	if updated.Content != created.Content {
		t.Errorf("Content changed on partial update")
	}
	if !updated.PredictionDate.Equal(created.PredictionDate) {
		t.Errorf("PredictionDate changed on partial update")
	}
	if !updated.CreatedAt.Equal(created.CreatedAt) {
		t.Errorf("CreatedAt changed on update")
	}
	if !updated.UpdatedAt.After(created.UpdatedAt) {
		t.Errorf("UpdatedAt = %v, want after %v", updated.UpdatedAt, created.UpdatedAt)
	}
}

func TestUpdateRevalidatesMergedRecord(t *testing.T) {
	svc := newTestService()
	created := mustCreate(t, svc, "T", "high", "2024-05-15")

	empty := ""
	_, err := svc.Update(context.Background(), adminCaller, created.ID, UpdatePredictionInput{
		Title: &empty,
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if _, ok := verr.Fields["title"]; !ok {
		t.Errorf("fields = %v, want title entry", verr.Fields)
	}

	bad := "apocalyptic"
	_, err = svc.Update(context.Background(), adminCaller, created.ID, UpdatePredictionInput{
		SeverityLevel: &bad,
	})
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}

	// Failed updates leave the record alone
	got, _ := svc.Get(context.Background(), created.ID)
	if got.Title != "T" || got.SeverityLevel != models.SeverityHigh {
		t.Errorf("record mutated by failed update: %+v", got)
	}
}

func TestUpdateMissingRecord(t *testing.T) {
	svc := newTestService()

	_, err := svc.Update(context.Background(), adminCaller, 42, UpdatePredictionInput{})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestDeleteThenGet(t *testing.T) {
	svc := newTestService()
	created := mustCreate(t, svc, "T", "moderate", "2024-03-01")

	if err := svc.Delete(context.Background(), adminCaller, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get after delete: error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), adminCaller, created.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete: error = %v, want ErrNotFound", err)
	}
}

func TestListPaginationArithmetic(t *testing.T) {
	svc := newTestService()
	for i := 0; i < 7; i++ {
		mustCreate(t, svc, "P", "low", "2024-01-01")
	}

	page, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 3})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(page.Predictions) != 3 {
		t.Errorf("page 1 size = %d, want 3", len(page.Predictions))
	}
	if page.TotalCount != 7 {
		t.Errorf("TotalCount = %d, want 7", page.TotalCount)
	}
	if page.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want ceil(7/3) = 3", page.TotalPages)
	}

	page3, _ := svc.List(context.Background(), ListParams{Page: 3, Limit: 3})
	if len(page3.Predictions) != 1 {
		t.Errorf("page 3 size = %d, want 1", len(page3.Predictions))
	}

	// Beyond the last page: empty, not an error
	page9, err := svc.List(context.Background(), ListParams{Page: 9, Limit: 3})
	if err != nil {
		t.Fatalf("List beyond last page failed: %v", err)
	}
	if len(page9.Predictions) != 0 {
		t.Errorf("page 9 size = %d, want 0", len(page9.Predictions))
	}
	if page9.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", page9.TotalPages)
	}
}

func TestListRejectsBadParams(t *testing.T) {
	svc := newTestService()

	cases := []struct {
		name   string
		params ListParams
		field  string
	}{
		{"zero limit", ListParams{Page: 1, Limit: 0}, "limit"},
		{"negative page", ListParams{Page: -1, Limit: 10}, "page"},
		{"bad severity", ListParams{Page: 1, Limit: 10, Severity: "critical"}, "severity"},
		{"bad sort field", ListParams{Page: 1, Limit: 10, Sort: "-congestion"}, "sort"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.List(context.Background(), tc.params)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("fields = %v, want %q entry", verr.Fields, tc.field)
			}
		})
	}
}

func TestListSeverityFilter(t *testing.T) {
	svc := newTestService()
	mustCreate(t, svc, "A", "low", "2024-01-01")
	mustCreate(t, svc, "B", "high", "2024-01-02")
	mustCreate(t, svc, "C", "high", "2024-01-03")
	mustCreate(t, svc, "D", "extreme", "2024-01-04")

	page, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10, Severity: "high"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", page.TotalCount)
	}
	for _, p := range page.Predictions {
		if p.SeverityLevel != models.SeverityHigh {
			t.Errorf("filtered list contains severity %q", p.SeverityLevel)
		}
	}
}

func TestListSeverityOrdinalSort(t *testing.T) {
	svc := newTestService()
	mustCreate(t, svc, "moderate", "moderate", "2024-01-01")
	mustCreate(t, svc, "extreme", "extreme", "2024-01-01")
	mustCreate(t, svc, "low", "low", "2024-01-01")
	olderHigh := mustCreate(t, svc, "high-older", "high", "2024-01-01")
	time.Sleep(2 * time.Millisecond)
	newerHigh := mustCreate(t, svc, "high-newer", "high", "2024-01-01")

	page, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10, Sort: "severity_level"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	got := make([]models.Severity, 0, len(page.Predictions))
	for _, p := range page.Predictions {
		got = append(got, p.SeverityLevel)
	}
	want := []models.Severity{
		models.SeverityLow, models.SeverityModerate,
		models.SeverityHigh, models.SeverityHigh, models.SeverityExtreme,
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ascending severity order = %v, want %v", got, want)
		}
	}

	// Equal severities break by created_at descending: the newer high first
	if page.Predictions[2].ID != newerHigh.ID || page.Predictions[3].ID != olderHigh.ID {
		t.Errorf("equal-severity order = [%d %d], want newest first [%d %d]",
			page.Predictions[2].ID, page.Predictions[3].ID, newerHigh.ID, olderHigh.ID)
	}

	desc, _ := svc.List(context.Background(), ListParams{Page: 1, Limit: 10, Sort: "-severity_level"})
	if desc.Predictions[0].SeverityLevel != models.SeverityExtreme {
		t.Errorf("descending sort starts with %q, want extreme", desc.Predictions[0].SeverityLevel)
	}
}

func TestListSortDefaultNewestFirst(t *testing.T) {
	svc := newTestService()
	first := mustCreate(t, svc, "first", "low", "2024-01-01")
	time.Sleep(2 * time.Millisecond)
	second := mustCreate(t, svc, "second", "low", "2024-01-01")

	page, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Predictions[0].ID != second.ID || page.Predictions[1].ID != first.ID {
		t.Errorf("default order = [%d %d], want newest first [%d %d]",
			page.Predictions[0].ID, page.Predictions[1].ID, second.ID, first.ID)
	}
}

func TestListSortByDateTieBreak(t *testing.T) {
	svc := newTestService()
	older := mustCreate(t, svc, "older", "low", "2024-06-01")
	time.Sleep(2 * time.Millisecond)
	newer := mustCreate(t, svc, "newer", "low", "2024-06-01")

	// Equal prediction dates break by created_at descending
	page, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10, Sort: "prediction_date"})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if page.Predictions[0].ID != newer.ID || page.Predictions[1].ID != older.ID {
		t.Errorf("tie-break order = [%d %d], want [%d %d]",
			page.Predictions[0].ID, page.Predictions[1].ID, newer.ID, older.ID)
	}
}

func TestListAcceptsLegacySortSpelling(t *testing.T) {
	svc := newTestService()
	mustCreate(t, svc, "P", "low", "2024-01-01")

	// The original web client sent mongoose-style "-createdAt"
	if _, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10, Sort: "-createdAt"}); err != nil {
		t.Errorf("List with -createdAt failed: %v", err)
	}
	if _, err := svc.List(context.Background(), ListParams{Page: 1, Limit: 10, Sort: "-date"}); err != nil {
		t.Errorf("List with -date failed: %v", err)
	}
}
