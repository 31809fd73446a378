package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/clasp-sub000/internal/sync"
	"github.com/google/clasp-sub000/internal/types"
)

func samplePlan() *sync.Plan {
	return &sync.Plan{
		ToUpload: []types.RemoteFile{
			{Name: "Code", Type: types.ServerJS, Source: "function f() {}"},
			{Name: "appsscript", Type: types.JSON, Source: "{}"},
		},
		Ignored:     []string{"notes.txt"},
		Unsupported: []string{"image.png"},
	}
}

func TestPrintStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintStatus(&buf, samplePlan())
	out := buf.String()

	for _, want := range []string{"Code", "SERVER_JS", "appsscript", "JSON", "notes.txt", "ignored", "image.png", "unsupported"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q\noutput:\n%s", want, out)
		}
	}
}

func TestPrintStatusEmptyPlan(t *testing.T) {
	var buf bytes.Buffer
	PrintStatus(&buf, &sync.Plan{})

	if !strings.Contains(buf.String(), "No files to push.") {
		t.Errorf("output = %q, want empty-plan notice", buf.String())
	}
}

func TestPrintStatusJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintStatusJSON(&buf, samplePlan()); err != nil {
		t.Fatalf("PrintStatusJSON failed: %v", err)
	}

	var got struct {
		Tracked []struct {
			Name string `json:"name"`
			Type string `json:"type"`
		} `json:"tracked"`
		Ignored     []string `json:"ignored"`
		Unsupported []string `json:"unsupported"`
	}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(got.Tracked) != 2 || got.Tracked[0].Name != "Code" || got.Tracked[0].Type != "SERVER_JS" {
		t.Errorf("tracked = %+v", got.Tracked)
	}
	if len(got.Ignored) != 1 || got.Ignored[0] != "notes.txt" {
		t.Errorf("ignored = %v", got.Ignored)
	}
	if len(got.Unsupported) != 1 || got.Unsupported[0] != "image.png" {
		t.Errorf("unsupported = %v", got.Unsupported)
	}
}

func TestPrintStatusJSONEmptySlices(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintStatusJSON(&buf, &sync.Plan{}); err != nil {
		t.Fatalf("PrintStatusJSON failed: %v", err)
	}

	// Empty plans must serialize as [] rather than null.
	out := buf.String()
	if strings.Contains(out, "null") {
		t.Errorf("output contains null slices:\n%s", out)
	}
}

func TestPrintPushed(t *testing.T) {
	var buf bytes.Buffer
	PrintPushed(&buf, samplePlan())
	out := buf.String()

	if !strings.Contains(out, "[1/2] Pushed Code (SERVER_JS)") {
		t.Errorf("output missing first push line:\n%s", out)
	}
	if !strings.Contains(out, "Pushed 2 files.") {
		t.Errorf("output missing summary:\n%s", out)
	}
}

func TestPrintPulled(t *testing.T) {
	var buf bytes.Buffer
	PrintPulled(&buf, []string{"Code.js", "appsscript.json"})
	out := buf.String()

	if !strings.Contains(out, "[2/2] Wrote appsscript.json") {
		t.Errorf("output missing write line:\n%s", out)
	}
	if !strings.Contains(out, "Pulled 2 files.") {
		t.Errorf("output missing summary:\n%s", out)
	}
}
