// Package types defines the core data structures shared across the clasp
// sync engine: the remote file model of the Apps Script content API, the
// local file model produced by discovery, and the configuration structs.
package types

// FileType is the closed set of file types the Apps Script content API
// accepts. The string values are the literal wire contract and must not
// change.
type FileType string

const (
	// ServerJS is server-side script code (.gs or .js locally).
	ServerJS FileType = "SERVER_JS"
	// HTML is an HTML template file.
	HTML FileType = "HTML"
	// JSON is reserved for the project manifest.
	JSON FileType = "JSON"
)

// ManifestFileName is the single reserved local filename every project must
// contain exactly one of.
const ManifestFileName = "appsscript.json"

// RemoteFile is one file in a remote project's flat file list. Name is
// extensionless, '/'-separated and root-relative; it is unique within a
// project, an invariant the remote service enforces.
type RemoteFile struct {
	Name   string   `json:"name"`
	Type   FileType `json:"type"`
	Source string   `json:"source"`
}

// LocalFile is one candidate file found during the local tree walk.
// RelativePath is unique within a sync pass and uses the OS separator.
type LocalFile struct {
	RelativePath string
	IsIgnored    bool
	Type         FileType // zero value when Unsupported is set
	Unsupported  bool
	TypeScript   bool // server script that needs transpilation before upload
}

// LocalFileWrite is one planned file materialization during a pull.
type LocalFileWrite struct {
	Path   string // relative to the project directory, OS separators
	Source string
}

// ProjectSettings is the contents of the project settings file
// (.clasp.json). It is read at the start of every sync and never mutated by
// the engine.
type ProjectSettings struct {
	ScriptID      string   `json:"scriptId"`
	RootDir       string   `json:"rootDir,omitempty"`
	FileExtension string   `json:"fileExtension,omitempty"`
	FilePushOrder []string `json:"filePushOrder,omitempty"`
	ParentID      []string `json:"parentId,omitempty"`
}

// Config is the optional user-level configuration (~/.clasp/config.yaml).
type Config struct {
	// PullConcurrency bounds the worker pool writing pulled files.
	PullConcurrency int `yaml:"pull_concurrency"`
	// DefaultExtension is used for SERVER_JS files on pull when the project
	// settings do not set fileExtension.
	DefaultExtension string `yaml:"default_extension"`
	// CredentialsPath overrides the default credentials file location.
	CredentialsPath string `yaml:"credentials_path"`
}

// Extension returns the local extension (without dot) used when writing a
// pulled file of type t. fileExtension only applies to server scripts.
func (t FileType) Extension(fileExtension string) string {
	switch t {
	case ServerJS:
		if fileExtension != "" {
			return fileExtension
		}
		return "js"
	case HTML:
		return "html"
	case JSON:
		return "json"
	default:
		return ""
	}
}
