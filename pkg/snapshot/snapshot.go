// Package snapshot reads and writes program snapshots: the parsed files
// of a TTCN-3 program as produced by an external frontend.
//
// A snapshot stores each file's source text, syntax errors and syntax
// tree. The semantic model is rebuilt on load by program.Set.Resolve, so
// snapshots stay independent of the binder. Two encodings are supported:
// MessagePack for tools and JSON for humans and tests.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/leapstack-labs/ttcnlint/pkg/program"
)

// SchemaVersion is incremented whenever the snapshot format changes.
const SchemaVersion uint16 = 1

// File extensions recognised by ReadFile and WriteFile.
const (
	ExtMsgpack = ".ttsnap"
	ExtJSON    = ".json"
)

var (
	// ErrSchemaMismatch is returned for snapshots of another schema version.
	ErrSchemaMismatch = errors.New("snapshot schema mismatch")

	// ErrUnknownKind is returned for node kinds this build does not know.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrMalformed is returned for structurally invalid snapshots.
	ErrMalformed = errors.New("malformed snapshot")

	// ErrUnknownFormat is returned for unsupported file extensions.
	ErrUnknownFormat = errors.New("unknown snapshot format")
)

// Format selects the encoding.
type Format int

// Supported formats.
const (
	Msgpack Format = iota
	JSON
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMsgpack:
		return Msgpack, nil
	case ExtJSON:
		return JSON, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Snapshot is a set of parsed files.
type Snapshot struct {
	Schema uint16 `json:"schema" msgpack:"schema"`
	Files  []File `json:"files" msgpack:"files"`
}

// File is one parsed file.
type File struct {
	Path   string                `json:"path" msgpack:"path"`
	Src    string                `json:"src" msgpack:"src"`
	Errors []program.SyntaxError `json:"errors,omitempty" msgpack:"errors,omitempty"`

	// Required lists imports the frontend needs for reasons not visible
	// as references.
	Required []string `json:"required,omitempty" msgpack:"required,omitempty"`

	Root *Node `json:"root,omitempty" msgpack:"root,omitempty"`
}

// Capture snapshots every file of a program.
func Capture(p program.Program) (*Snapshot, error) {
	snap := &Snapshot{Schema: SchemaVersion}
	for _, e := range p.Files() {
		f, err := CaptureFile(e.File)
		if err != nil {
			return nil, err
		}
		snap.Files = append(snap.Files, f)
	}
	return snap, nil
}

// CaptureFile snapshots a single file.
func CaptureFile(sf *program.SourceFile) (File, error) {
	root, err := EncodeTree(sf.AST.Root)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", sf.Path, err)
	}
	f := File{Path: sf.Path, Src: sf.AST.Src, Errors: sf.AST.Errors, Root: root}
	if sf.Module != nil {
		for name, ok := range sf.Module.RequiredImports {
			if ok {
				f.Required = append(f.Required, name)
			}
		}
		slices.Sort(f.Required)
	}
	return f, nil
}

// SourceFile rebuilds the file. Its Module is nil until the file is
// resolved as part of a program.
func (f File) SourceFile() (*program.SourceFile, error) {
	root, err := DecodeTree(f.Root, len(f.Src))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	sf := program.NewSourceFile(f.Path, f.Src, root, f.Errors)
	if len(f.Required) > 0 {
		required := make(map[string]bool, len(f.Required))
		for _, name := range f.Required {
			required[name] = true
		}
		sf.Module = &program.ModuleDescriptor{RequiredImports: required}
	}
	return sf, nil
}

// Program rebuilds and resolves every file of the snapshot.
func (s *Snapshot) Program() (*program.Set, error) {
	set := program.NewSet()
	for _, f := range s.Files {
		sf, err := f.SourceFile()
		if err != nil {
			return nil, err
		}
		if err := set.Add(sf); err != nil {
			return nil, err
		}
	}
	set.Resolve()
	return set, nil
}

// Encode writes the snapshot to w.
func Encode(w io.Writer, s *Snapshot, format Format) error {
	switch format {
	case Msgpack:
		enc := msgpack.NewEncoder(w)
		enc.SetOmitEmpty(true)
		return enc.Encode(s)
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}
	return fmt.Errorf("%w: %d", ErrUnknownFormat, format)
}

// Decode reads a snapshot from r and checks its schema version.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	var s Snapshot
	switch format {
	case Msgpack:
		if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	case JSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownFormat, format)
	}
	if s.Schema != SchemaVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, s.Schema, SchemaVersion)
	}
	return &s, nil
}

// ReadFile loads a snapshot, choosing the format by extension.
func ReadFile(path string) (*Snapshot, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: caller-supplied path
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	s, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// WriteFile stores a snapshot atomically, choosing the format by
// extension.
func WriteFile(path string, s *Snapshot) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(f.Name()) //nolint:errcheck // gone after a successful rename

	if err := Encode(f, s, format); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return os.Rename(f.Name(), path)
}
