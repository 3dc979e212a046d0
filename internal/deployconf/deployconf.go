package deployconf

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ksyq12/certdeploy/internal/errors"
)

// Document is a loaded deploy.json sidecar. Top-level sections are kept as
// raw JSON so a write-back to one target's section never disturbs the bytes
// of another's.
type Document struct {
	path     string
	mode     os.FileMode
	sections map[string]json.RawMessage
	decoded  map[string]map[string]interface{} // lazy per-section decode cache
}

// defaultMode is used when the sidecar is created fresh. The file carries
// credentials, so group/world access is withheld.
const defaultMode os.FileMode = 0600

// Load reads and parses the deploy.json at path.
// A missing file is an initialization error: the caller asked for targets
// that cannot exist without configuration.
func Load(path string) (*Document, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, errors.Init(fmt.Sprintf("deploy.json not found at %s", path), errors.ErrConfigNotFound)
	}
	if err != nil {
		return nil, errors.Init("failed to stat deploy.json", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Init("failed to read deploy.json", err)
	}

	sections := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, errors.Init("failed to parse deploy.json", err)
	}

	return &Document{
		path:     path,
		mode:     info.Mode().Perm(),
		sections: sections,
		decoded:  make(map[string]map[string]interface{}),
	}, nil
}

// Path returns the file path this document was loaded from.
func (d *Document) Path() string {
	return d.path
}

// Has reports whether the named top-level target section exists.
// Absence means "this target is not configured for this lineage".
func (d *Document) Has(section string) bool {
	_, ok := d.sections[section]
	return ok
}

// Sections returns the names of all top-level sections, sorted order not
// guaranteed.
func (d *Document) Sections() []string {
	names := make([]string, 0, len(d.sections))
	for name := range d.sections {
		names = append(names, name)
	}
	return names
}

// Get resolves a dot-delimited key path ("clearPass.webHost") against the
// document. The second return is false when any path element is absent or
// the value is JSON null.
func (d *Document) Get(path string) (interface{}, bool) {
	parts := strings.Split(path, ".")
	section, err := d.section(parts[0])
	if err != nil || section == nil {
		return nil, false
	}

	var cur interface{} = section
	for _, part := range parts[1:] {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// GetString returns the string at path, or def when absent or not a string.
// Numbers are formatted, so a JSON port number reads back as its digits.
func (d *Document) GetString(path, def string) string {
	v, ok := d.Get(path)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return def
	}
}

// GetInt returns the integer at path, or def when absent or not numeric.
func (d *Document) GetInt(path string, def int) int {
	v, ok := d.Get(path)
	if !ok {
		return def
	}
	switch val := v.(type) {
	case float64:
		return int(val)
	case string:
		var n int
		if _, err := fmt.Sscanf(val, "%d", &n); err == nil {
			return n
		}
	}
	return def
}

// GetStringSlice returns the string array at path, or nil when absent.
// Non-string elements are skipped.
func (d *Document) GetStringSlice(path string) []string {
	v, ok := d.Get(path)
	if !ok {
		return nil
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Require checks every dot-delimited key path and accumulates ALL missing
// paths before failing, so the operator sees the complete remediation list in
// one run. A trailing "[]" requires the value to be a non-empty array.
// Validation is all-or-nothing: no caller may act on a partially validated
// section.
func (d *Document) Require(target string, paths []string) error {
	var missing []string
	for _, p := range paths {
		if strings.HasSuffix(p, "[]") {
			arr := d.GetStringSlice(strings.TrimSuffix(p, "[]"))
			if len(arr) == 0 {
				missing = append(missing, p)
			}
			continue
		}
		if _, ok := d.Get(p); !ok {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return errors.MissingKeys(target, missing)
	}
	return nil
}

// Set writes a value into a target section, creating the section if needed.
// Only the named section is re-marshaled; every other section keeps its
// original bytes.
func (d *Document) Set(section, key string, value interface{}) error {
	m, err := d.section(section)
	if err != nil {
		return err
	}
	if m == nil {
		m = make(map[string]interface{})
	}
	m[key] = value

	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode %s section: %w", section, err)
	}
	d.sections[section] = raw
	d.decoded[section] = m
	return nil
}

// SaveAtomic persists the document by writing a temporary file in the same
// directory and renaming it over the original, so an interrupted write never
// leaves a corrupted deploy.json behind. The original file mode is preserved.
func (d *Document) SaveAtomic() error {
	data, err := json.MarshalIndent(d.sections, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode deploy.json: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(d.path)
	tmp, err := os.CreateTemp(dir, ".deploy-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	mode := d.mode
	if mode == 0 {
		mode = defaultMode
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set mode on temp file: %w", err)
	}

	if err := os.Rename(tmpPath, d.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace deploy.json: %w", err)
	}
	return nil
}

// Raw returns the raw bytes of a section, for tests and diffing.
func (d *Document) Raw(section string) json.RawMessage {
	return d.sections[section]
}

// section decodes a top-level section into a generic map, caching the result.
func (d *Document) section(name string) (map[string]interface{}, error) {
	if m, ok := d.decoded[name]; ok {
		return m, nil
	}
	raw, ok := d.sections[name]
	if !ok {
		return nil, nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode %s section: %w", name, err)
	}
	d.decoded[name] = m
	return m, nil
}
