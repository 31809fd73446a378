package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/clasp-sub000/internal/sync"
)

// statusJSON is the machine-readable status shape. Sources are omitted;
// status is about membership, not content.
type statusJSON struct {
	Tracked     []trackedJSON `json:"tracked"`
	Ignored     []string      `json:"ignored"`
	Unsupported []string      `json:"unsupported"`
}

type trackedJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// PrintStatusJSON writes the plan as indented JSON.
func PrintStatusJSON(w io.Writer, plan *sync.Plan) error {
	out := statusJSON{
		Tracked:     []trackedJSON{},
		Ignored:     plan.Ignored,
		Unsupported: plan.Unsupported,
	}
	if out.Ignored == nil {
		out.Ignored = []string{}
	}
	if out.Unsupported == nil {
		out.Unsupported = []string{}
	}
	for _, f := range plan.ToUpload {
		out.Tracked = append(out.Tracked, trackedJSON{Name: f.Name, Type: string(f.Type)})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding status JSON: %w", err)
	}
	return nil
}
