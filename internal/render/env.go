package render

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/lcars-computer/stackctl/internal/model"
	"github.com/lcars-computer/stackctl/internal/util"
)

// EnvFile is a .env document edited line by line so comments, ordering and
// unrelated keys survive regeneration.
type EnvFile struct {
	lines  []string
	values map[string]string
}

// ParseEnv reads an existing overlay. Empty input yields an empty file.
func ParseEnv(data []byte) (*EnvFile, error) {
	values, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return nil, &model.ServiceError{Kind: model.KindMalformedConfig, Detail: "env overlay", Err: err}
	}
	f := &EnvFile{values: values}
	content := strings.TrimRight(string(data), "\n")
	if content != "" {
		f.lines = strings.Split(content, "\n")
	}
	return f, nil
}

// Get returns the parsed value of key.
func (f *EnvFile) Get(key string) (string, bool) {
	v, ok := f.values[key]
	return v, ok
}

// Has reports whether key is assigned anywhere in the file.
func (f *EnvFile) Has(key string) bool {
	_, ok := f.values[key]
	return ok
}

// Set replaces every assignment of key in place, or appends one. A blank
// line separates appended keys from existing content.
func (f *EnvFile) Set(key, value string) {
	line := key + "=" + util.QuoteEnv(value)
	replaced := false
	for i, l := range f.lines {
		if lineKey(l) == key {
			f.lines[i] = line
			replaced = true
		}
	}
	if !replaced {
		if n := len(f.lines); n > 0 && strings.TrimSpace(f.lines[n-1]) != "" {
			f.lines = append(f.lines, "")
		}
		f.lines = append(f.lines, line)
	}
	f.values[key] = value
}

// Bytes renders the file with a trailing newline.
func (f *EnvFile) Bytes() []byte {
	if len(f.lines) == 0 {
		return nil
	}
	return []byte(strings.Join(f.lines, "\n") + "\n")
}

func lineKey(line string) string {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return ""
	}
	line = strings.TrimPrefix(line, "export ")
	k, _, ok := strings.Cut(line, "=")
	if !ok {
		return ""
	}
	return strings.TrimSpace(k)
}

// EnvRenderer upserts the overlay variables of a deployment into Base, the
// current contents of the .env file.
type EnvRenderer struct {
	Base     []byte
	Mappings map[string]EnvMapping
}

// Render applies each service's mapping in catalog order.
func (r *EnvRenderer) Render(d *model.Deployment) ([]byte, error) {
	f, err := ParseEnv(r.Base)
	if err != nil {
		return nil, err
	}

	mappings := r.Mappings
	if mappings == nil {
		mappings = EnvMappings
	}

	for _, sc := range d.Services() {
		m, ok := mappings[sc.Key()]
		if !ok {
			continue
		}
		switch mode := sc.Mode().(type) {
		case model.Existing:
			if m.Existing == nil {
				continue
			}
			for _, v := range m.Existing(mode.Endpoint) {
				f.Set(v.Key, v.Value)
			}
		case model.Fresh:
			for _, v := range m.Fresh {
				if f.Has(v.Key) {
					f.Set(v.Key, v.Value)
				}
			}
		}
	}
	return f.Bytes(), nil
}
