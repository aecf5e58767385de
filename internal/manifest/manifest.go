// Package manifest loads, edits and writes package.json documents.
//
// A Manifest exposes the fields publisher reasons about (scripts,
// dependencies, entry points) as typed values while keeping every other
// top-level key, and the original key order, intact for write-back.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tailscale/hujson"

	"github.com/danieljhkim/publisher/internal/fsops"
)

// FileName is the manifest file name looked up at the project root.
const FileName = "package.json"

const (
	keyName            = "name"
	keyVersion         = "version"
	keyMain            = "main"
	keyTypes           = "types"
	keyBin             = "bin"
	keyScripts         = "scripts"
	keyDependencies    = "dependencies"
	keyDevDependencies = "devDependencies"
)

// Manifest is a parsed package.json.
type Manifest struct {
	Name    string
	Version string
	Main    string
	Types   string

	// Bin holds the object form of "bin"; BinPath holds the string form.
	Bin     *OrderedMap[string]
	BinPath string

	Scripts         *OrderedMap[string]
	Dependencies    *OrderedMap[string]
	DevDependencies *OrderedMap[string]

	doc *OrderedMap[json.RawMessage]
	// owned records keys whose values decoded into typed fields. Keys with
	// an unexpected JSON type are left in doc untouched.
	owned map[string]bool
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{
		doc:   NewOrderedMap[json.RawMessage](),
		owned: make(map[string]bool),
	}
}

// Parse decodes a package.json document. Comments and trailing commas are
// tolerated.
func Parse(data []byte) (*Manifest, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	m := New()
	if err := json.Unmarshal(std, m.doc); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	m.decodeString(keyName, &m.Name)
	m.decodeString(keyVersion, &m.Version)
	m.decodeString(keyMain, &m.Main)
	m.decodeString(keyTypes, &m.Types)
	m.Scripts = m.decodeMap(keyScripts)
	m.Dependencies = m.decodeMap(keyDependencies)
	m.DevDependencies = m.decodeMap(keyDevDependencies)
	if m.Bin = m.decodeMap(keyBin); m.Bin == nil {
		m.decodeString(keyBin, &m.BinPath)
	}

	return m, nil
}

// Load reads and parses the manifest at path.
func Load(fs fsops.FS, path string) (*Manifest, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return m, nil
}

// Save writes the manifest to path as 2-space indented JSON.
func Save(fs fsops.FS, path string, m *Manifest) error {
	data, err := m.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := fs.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (m *Manifest) decodeString(key string, dst *string) {
	raw, ok := m.doc.Get(key)
	if !ok || !bytes.HasPrefix(bytes.TrimSpace(raw), []byte{'"'}) {
		return
	}
	if err := json.Unmarshal(raw, dst); err == nil {
		m.owned[key] = true
	}
}

func (m *Manifest) decodeMap(key string) *OrderedMap[string] {
	raw, ok := m.doc.Get(key)
	if !ok {
		return nil
	}
	out := NewOrderedMap[string]()
	if err := json.Unmarshal(raw, out); err != nil {
		return nil
	}
	m.owned[key] = true
	return out
}

// deleteKey drops a top-level key whatever its JSON type.
func (m *Manifest) deleteKey(key string) {
	m.doc.Delete(key)
	delete(m.owned, key)
}

// editObject applies fn to the object under key when the typed fields could
// not hold it. Keys holding anything but an object are left alone.
func (m *Manifest) editObject(key string, fn func(obj *OrderedMap[json.RawMessage])) {
	raw, ok := m.doc.Get(key)
	if !ok {
		return
	}
	obj := NewOrderedMap[json.RawMessage]()
	if err := json.Unmarshal(raw, obj); err != nil {
		return
	}
	fn(obj)
	if data, err := encode(obj); err == nil {
		m.doc.Set(key, data)
	}
}

// Script returns the named lifecycle script. Empty scripts count as absent.
func (m *Manifest) Script(name string) (string, bool) {
	s, ok := m.Scripts.Get(name)
	return s, ok && s != ""
}

// HasScript reports whether the manifest declares a non-empty script.
func (m *Manifest) HasScript(name string) bool {
	_, ok := m.Script(name)
	return ok
}

// HasDependency reports whether name is a runtime or development dependency.
func (m *Manifest) HasDependency(name string) bool {
	return m.Dependencies.Has(name) || m.DevDependencies.Has(name)
}

// Keys returns the top-level keys in document order, including keys added
// or removed through the typed fields.
func (m *Manifest) Keys() []string {
	_ = m.sync()
	return m.doc.Keys()
}

// Raw returns the encoded value of a top-level key.
func (m *Manifest) Raw(key string) (json.RawMessage, bool) {
	if err := m.sync(); err != nil {
		return nil, false
	}
	return m.doc.Get(key)
}

// Marshal encodes the manifest as 2-space indented JSON with a trailing
// newline.
func (m *Manifest) Marshal() ([]byte, error) {
	if err := m.sync(); err != nil {
		return nil, err
	}
	compact, err := encode(m.doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// sync writes the typed fields back into the underlying document.
func (m *Manifest) sync() error {
	if m.doc == nil {
		m.doc = NewOrderedMap[json.RawMessage]()
	}
	if m.owned == nil {
		m.owned = make(map[string]bool)
	}

	for _, f := range []struct {
		key   string
		value string
	}{
		{keyName, m.Name},
		{keyVersion, m.Version},
		{keyMain, m.Main},
		{keyTypes, m.Types},
	} {
		if err := m.syncString(f.key, f.value); err != nil {
			return err
		}
	}

	for _, f := range []struct {
		key   string
		value *OrderedMap[string]
	}{
		{keyScripts, m.Scripts},
		{keyDependencies, m.Dependencies},
		{keyDevDependencies, m.DevDependencies},
	} {
		if err := m.syncMap(f.key, f.value); err != nil {
			return err
		}
	}

	if m.Bin != nil {
		return m.syncMap(keyBin, m.Bin)
	}
	if m.BinPath != "" {
		return m.syncString(keyBin, m.BinPath)
	}
	if m.owned[keyBin] {
		m.doc.Delete(keyBin)
		delete(m.owned, keyBin)
	}
	return nil
}

func (m *Manifest) syncString(key, value string) error {
	if value == "" && !m.owned[key] {
		return nil
	}
	raw, err := encode(value)
	if err != nil {
		return err
	}
	m.doc.Set(key, raw)
	m.owned[key] = true
	return nil
}

func (m *Manifest) syncMap(key string, value *OrderedMap[string]) error {
	if value == nil {
		if m.owned[key] {
			m.doc.Delete(key)
			delete(m.owned, key)
		}
		return nil
	}
	raw, err := encode(value)
	if err != nil {
		return err
	}
	m.doc.Set(key, raw)
	m.owned[key] = true
	return nil
}
