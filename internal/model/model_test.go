package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

// TestResourceSet tests the insertion-ordered resource set.
func TestResourceSet(t *testing.T) {
	t.Parallel()

	t.Run("keeps first insertion order and drops duplicates", func(t *testing.T) {
		t.Parallel()

		s := NewResourceSet()
		for _, u := range []string{"http://x/a.png", "http://x/b.pdf", "http://x/a.png", "http://x/c.gif"} {
			s.Add(u)
		}

		want := []string{"http://x/a.png", "http://x/b.pdf", "http://x/c.gif"}
		got := s.URLs()
		if strings.Join(got, ",") != strings.Join(want, ",") {
			t.Errorf("expected %v, got %v", want, got)
		}
		if s.Len() != 3 {
			t.Errorf("expected 3, got %d", s.Len())
		}
	})

	t.Run("Add reports novelty", func(t *testing.T) {
		t.Parallel()

		s := NewResourceSet()
		if !s.Add("http://x/a.png") {
			t.Error("expected first Add to return true")
		}
		if s.Add("http://x/a.png") {
			t.Error("expected duplicate Add to return false")
		}
		if !s.Contains("http://x/a.png") || s.Contains("http://x/b.png") {
			t.Error("unexpected Contains result")
		}
	})

	t.Run("URLs returns a copy", func(t *testing.T) {
		t.Parallel()

		s := NewResourceSet()
		s.Add("http://x/a.png")
		urls := s.URLs()
		urls[0] = "changed"
		if s.URLs()[0] != "http://x/a.png" {
			t.Error("expected set to be unaffected by changes to the copy")
		}
	})

	t.Run("empty set", func(t *testing.T) {
		t.Parallel()

		s := NewResourceSet()
		if s.Len() != 0 || len(s.URLs()) != 0 || s.URLs() == nil {
			t.Error("expected empty non-nil URL list")
		}
	})
}

// TestComputeDigest tests the SHA3-256 artifact digest.
func TestComputeDigest(t *testing.T) {
	t.Parallel()

	// SHA3-256("abc") from FIPS 202.
	const abc = "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532"
	if got := ComputeDigest([]byte("abc")); got != abc {
		t.Errorf("expected %s, got %s", abc, got)
	}
	if got := ComputeDigest(nil); got != "" {
		t.Errorf("expected empty digest, got %q", got)
	}
}

// TestRunReport tests the run report helpers.
func TestRunReport(t *testing.T) {
	t.Parallel()

	t.Run("new report has empty non-nil lists", func(t *testing.T) {
		t.Parallel()

		r := NewRunReport("http://x/")
		if r.Seed != "http://x/" || r.StartedAt.IsZero() {
			t.Errorf("unexpected report %+v", r)
		}
		if r.Pages == nil || r.Resources == nil || r.Artifacts == nil || r.Failures == nil || r.Skipped == nil {
			t.Error("expected non-nil lists")
		}

		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(data), `"resources":[]`) {
			t.Errorf("expected empty resources array, got %s", data)
		}
	})

	t.Run("duration", func(t *testing.T) {
		t.Parallel()

		r := NewRunReport("http://x/")
		if r.Duration() != 0 {
			t.Error("expected zero duration before FinishedAt")
		}
		r.FinishedAt = r.StartedAt.Add(1500 * time.Millisecond)
		if r.Duration() != 1500*time.Millisecond {
			t.Errorf("expected 1.5s, got %v", r.Duration())
		}
	})

	t.Run("failures and skips", func(t *testing.T) {
		t.Parallel()

		r := NewRunReport("http://x/")
		r.AddFailure("http://x/a", "404 Not Found")
		r.AddSkipped("http://x/b.png", "unknown file format")
		if len(r.Failures) != 1 || r.Failures[0].Reason != "404 Not Found" {
			t.Errorf("unexpected failures %+v", r.Failures)
		}
		if len(r.Skipped) != 1 || r.Skipped[0].URL != "http://x/b.png" {
			t.Errorf("unexpected skipped %+v", r.Skipped)
		}
	})

	t.Run("status", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name   string
			modify func(*RunReport)
			want   string
		}{
			{name: "complete", modify: func(*RunReport) {}, want: "complete"},
			{name: "failures are still complete", modify: func(r *RunReport) { r.AddFailure("u", "r") }, want: "complete"},
			{name: "error", modify: func(r *RunReport) {
				r.Error = errors.New("disk full")
				r.ErrorMessage = "disk full"
			}, want: "error"},
			{name: "cancelled wins", modify: func(r *RunReport) {
				r.ErrorMessage = "x"
				r.Cancelled = true
			}, want: "cancelled"},
		}
		for _, tt := range tests {
			r := NewRunReport("http://x/")
			tt.modify(r)
			if got := r.Status(); got != tt.want {
				t.Errorf("%s: expected %s, got %s", tt.name, tt.want, got)
			}
		}
	})

	t.Run("error is not serialized directly", func(t *testing.T) {
		t.Parallel()

		r := NewRunReport("http://x/")
		r.Error = errors.New("boom")
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(string(data), "boom") {
			t.Errorf("expected Error to be skipped, got %s", data)
		}
	})
}

// TestFileMetadata tests the metadata helpers.
func TestFileMetadata(t *testing.T) {
	t.Parallel()

	md := &FileMetadata{Name: "a.jpg"}
	if md.HasEXIF() {
		t.Error("expected no EXIF")
	}
	md.AddProperty("Format", "JPEG")
	md.AddProperty("Mode", "RGB")
	md.EXIF = append(md.EXIF, Property{Key: "Make", Value: "Canon"})

	if len(md.Properties) != 2 || md.Properties[1].Key != "Mode" {
		t.Errorf("expected properties in insertion order, got %+v", md.Properties)
	}
	if !md.HasEXIF() {
		t.Error("expected EXIF")
	}
}
