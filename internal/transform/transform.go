// Package transform defines the source transformation applied between
// reading a local file and handing it to the remote store. The only
// transformation the engine itself owns is TypeScript transpilation, which
// is modeled as an interface so the real compiler stays an external
// collaborator.
package transform

// Options carries per-file transpilation inputs.
type Options struct {
	// FileName is the local path of the source, for diagnostics.
	FileName string
}

// Transpiler converts TypeScript source into Apps Script-compatible
// JavaScript. Implementations must be safe for sequential reuse within one
// sync pass.
type Transpiler interface {
	Transpile(source string, opts Options) (string, error)
}

// Passthrough is the default Transpiler: it returns the source unchanged.
// Projects that push .ts files with a real compiler wire their own
// implementation into the engine.
type Passthrough struct{}

// Transpile implements Transpiler.
func (Passthrough) Transpile(source string, _ Options) (string, error) {
	return source, nil
}
