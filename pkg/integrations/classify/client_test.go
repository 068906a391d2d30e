package classify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tracevar/tracevar/pkg/lineage"
)

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Errorf("path = %s, want /classify", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("ParseMultipartForm error: %v", err)
		}
		files := r.MultipartForm.File["files"]
		if len(files) != 2 {
			t.Errorf("uploaded files = %d, want 2", len(files))
		}
		json.NewEncoder(w).Encode(Response{
			Files: []FileResult{
				{Filename: "define_adam.xml", Type: "adam_metadata", Datasets: []string{"ADAE", "ADSL"}},
				{Filename: "blankcrf.pdf", Type: "acrf_document", Datasets: []string{"AE"}},
			},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	resp, err := client.Classify(context.Background(), []Upload{
		{Filename: "define_adam.xml", Content: strings.NewReader("<xml/>")},
		{Filename: "blankcrf.pdf", Content: strings.NewReader("%PDF")},
	})
	if err != nil {
		t.Fatalf("Classify() error: %v", err)
	}
	if len(resp.Files) != 2 {
		t.Fatalf("Classify() = %d files, want 2", len(resp.Files))
	}
}

func TestTransformResponse(t *testing.T) {
	resp := &Response{
		Files: []FileResult{
			{Filename: "define_adam.xml", Type: "adam_metadata", Datasets: []string{"ADAE", "ADSL"}},
			{Filename: "define_sdtm.xml", Type: "sdtm_metadata", Datasets: []string{"AE"}},
			{Filename: "blankcrf.pdf", Type: "acrf_document", Datasets: []string{"CRF"}},
			{Filename: "tlf_shells.rtf", Type: "tlf_document", Datasets: []string{"T-14-3-1"}},
		},
	}

	records, err := TransformResponse(resp)
	if err != nil {
		t.Fatalf("TransformResponse() error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("TransformResponse() = %d records, want 5", len(records))
	}

	wantGroups := map[string]lineage.Group{
		"ADAE":     lineage.GroupADaM,
		"ADSL":     lineage.GroupADaM,
		"AE":       lineage.GroupSDTM,
		"CRF":      lineage.GroupACRF,
		"T-14-3-1": lineage.GroupTLF,
	}
	for _, rec := range records {
		if rec.Group != wantGroups[rec.Dataset] {
			t.Errorf("group(%s) = %s, want %s", rec.Dataset, rec.Group, wantGroups[rec.Dataset])
		}
	}
	if records[0].Filename != "define_adam.xml" {
		t.Errorf("record filename = %s, want define_adam.xml", records[0].Filename)
	}
}

func TestTransformResponseUnknownType(t *testing.T) {
	resp := &Response{
		Files: []FileResult{
			{Filename: "notes.txt", Type: "free_text", Datasets: []string{"MISC"}},
		},
	}

	if _, err := TransformResponse(resp); err == nil {
		t.Fatal("TransformResponse() with unknown type should fail")
	}
}

func TestTransformResponseEmpty(t *testing.T) {
	records, err := TransformResponse(&Response{})
	if err != nil {
		t.Fatalf("TransformResponse(empty) error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("TransformResponse(empty) = %d records, want 0", len(records))
	}
}
