package tools

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/djherbis/times"
	"github.com/google/jsonschema-go/jsonschema"

	"github.com/khoslan/toolbox"
)

// FileOperations reads, writes and inspects files inside a fixed workspace
// root captured at construction. Paths that are absolute or contain a
// parent-directory segment are rejected before any filesystem access; this
// is a security boundary, not a convenience.
type FileOperations struct {
	root string
}

// NewFileOperations creates the file tool rooted at the given workspace
// directory.
func NewFileOperations(root string) *FileOperations {
	return &FileOperations{root: root}
}

func (f *FileOperations) Name() string {
	return "file_operations"
}

func (f *FileOperations) Description() string {
	return "Reads, writes and inspects files within the workspace directory"
}

func (f *FileOperations) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"operation": {
				Type:        "string",
				Enum:        []any{"read", "write", "list", "info"},
				Description: "The file operation to perform",
			},
			"path": {
				Type:        "string",
				Description: "Path relative to the workspace root",
			},
			"content": {
				Type:        "string",
				Description: "Content to write (required for the write operation)",
			},
		},
		Required: []string{"operation", "path"},
	}
}

func (f *FileOperations) Call(ctx context.Context, args map[string]any) (*toolbox.Result, error) {
	operation, ok := args["operation"].(string)
	if !ok {
		return toolbox.Fail("missing or invalid 'operation' argument"), nil
	}
	path, ok := args["path"].(string)
	if !ok {
		return toolbox.Fail("missing or invalid 'path' argument"), nil
	}

	resolved, err := f.resolve(path)
	if err != nil {
		return toolbox.Fail(err.Error()), nil
	}

	switch operation {
	case "read":
		return f.read(path, resolved)
	case "write":
		content, _ := args["content"].(string)
		return f.write(path, resolved, content)
	case "list":
		return f.list(path, resolved)
	case "info":
		return f.info(path, resolved)
	default:
		return toolbox.Fail(fmt.Sprintf("unknown operation: %q", operation)), nil
	}
}

// resolve rejects traversal attempts and anchors the path at the workspace
// root. The check runs on the raw argument, before any normalization that
// could mask a ".." segment.
func (f *FileOperations) resolve(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path must not be empty")
	}
	if filepath.IsAbs(path) || strings.HasPrefix(path, "/") || strings.HasPrefix(path, `\`) {
		return "", fmt.Errorf("absolute paths are not allowed: %q", path)
	}
	for _, segment := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	}) {
		if segment == ".." {
			return "", fmt.Errorf("path traversal is not allowed: %q", path)
		}
	}
	return filepath.Join(f.root, path), nil
}

type fileContent struct {
	Path    string `json:"path"`
	Content string `json:"content"`
	Size    int    `json:"size"`
}

func (f *FileOperations) read(path, resolved string) (*toolbox.Result, error) {
	data, err := os.ReadFile(resolved)
	if err != nil {
		return failIO(path, err), nil
	}
	return toolbox.Ok(fileContent{
		Path:    path,
		Content: string(data),
		Size:    len(data),
	}), nil
}

type writeAck struct {
	Path         string `json:"path"`
	BytesWritten int    `json:"bytesWritten"`
	Message      string `json:"message"`
}

func (f *FileOperations) write(path, resolved, content string) (*toolbox.Result, error) {
	if content == "" {
		return toolbox.Fail("content is required for the write operation"), nil
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return failIO(path, err), nil
	}
	if err := os.WriteFile(resolved, []byte(content), 0o644); err != nil {
		return failIO(path, err), nil
	}
	return toolbox.Ok(writeAck{
		Path:         path,
		BytesWritten: len(content),
		Message:      fmt.Sprintf("wrote %d bytes to %s", len(content), path),
	}), nil
}

type dirEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type dirListing struct {
	Path    string     `json:"path"`
	Entries []dirEntry `json:"entries"`
}

func (f *FileOperations) list(path, resolved string) (*toolbox.Result, error) {
	entries, err := os.ReadDir(resolved)
	if err != nil {
		return failIO(path, err), nil
	}

	listing := dirListing{Path: path, Entries: make([]dirEntry, 0, len(entries))}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			return failIO(path, err), nil
		}
		listing.Entries = append(listing.Entries, dirEntry{
			Name: e.Name(),
			Type: entryType(e.IsDir()),
			Size: info.Size(),
		})
	}
	return toolbox.Ok(listing), nil
}

type fileInfo struct {
	Path     string    `json:"path"`
	Type     string    `json:"type"`
	Size     int64     `json:"size"`
	Created  time.Time `json:"created"`
	Modified time.Time `json:"modified"`
}

func (f *FileOperations) info(path, resolved string) (*toolbox.Result, error) {
	stat, err := os.Stat(resolved)
	if err != nil {
		return failIO(path, err), nil
	}

	// os.Stat has no creation time; times gives us the birth time where
	// the platform records one, the change time otherwise.
	created := stat.ModTime()
	if ts, err := times.Stat(resolved); err == nil {
		switch {
		case ts.HasBirthTime():
			created = ts.BirthTime()
		case ts.HasChangeTime():
			created = ts.ChangeTime()
		}
	}

	return toolbox.Ok(fileInfo{
		Path:     path,
		Type:     entryType(stat.IsDir()),
		Size:     stat.Size(),
		Created:  created,
		Modified: stat.ModTime(),
	}), nil
}

func entryType(isDir bool) string {
	if isDir {
		return "directory"
	}
	return "file"
}

// failIO maps a filesystem error to a tool failure, naming the original
// (pre-resolution) path so the message never leaks the workspace location.
func failIO(path string, err error) *toolbox.Result {
	if os.IsNotExist(err) {
		return toolbox.Fail(fmt.Sprintf("not found: %s", path))
	}
	return toolbox.Fail(err.Error())
}
