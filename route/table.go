package route

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"gopkg.in/yaml.v3"
)

// Record is one declarative route entry.
//
// RequiresAuth is a pointer so an omitted flag can default to true.
type Record struct {
	Name         string `yaml:"name,omitempty"`
	Path         string `yaml:"path"`
	RequiresAuth *bool  `yaml:"requires_auth,omitempty"`
	Redirect     string `yaml:"redirect,omitempty"`
}

// Protected reports whether the route needs a signed-in identity.
// Routes without an explicit flag are protected.
func (r Record) Protected() bool {
	return r.RequiresAuth == nil || *r.RequiresAuth
}

// Public returns a pointer suitable for Record.RequiresAuth.
func Public() *bool {
	v := false
	return &v
}

// Required returns an explicit "requires auth" flag.
func Required() *bool {
	v := true
	return &v
}

// Location describes a resolved navigation target.
//
// RequiresAuth follows the Record rule: nil means protected, so a
// hand-built Location without the flag is never treated as public.
type Location struct {
	Name         string
	Path         string
	FullPath     string
	Pattern      string
	Params       map[string]string
	Query        url.Values
	RequiresAuth *bool
	Redirect     string
	Matched      bool
}

// Protected reports whether the location needs a signed-in identity.
func (l Location) Protected() bool {
	return l.RequiresAuth == nil || *l.RequiresAuth
}

// IsZero reports whether l is the empty location (no navigation committed yet).
func (l Location) IsZero() bool {
	return l.FullPath == "" && l.Path == ""
}

// Table is an immutable route table.
type Table struct {
	mux       *chi.Mux
	records   []Record
	byPattern map[string]Record
	byName    map[string]Record
}

type fileTable struct {
	Routes []Record `yaml:"routes"`
}

var noopHandler = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})

// New validates records and builds a Table.
func New(records []Record) (*Table, error) {
	t := &Table{
		mux:       chi.NewRouter(),
		records:   make([]Record, 0, len(records)),
		byPattern: make(map[string]Record, len(records)),
		byName:    make(map[string]Record, len(records)),
	}

	for i, rec := range records {
		rec.Name = strings.TrimSpace(rec.Name)
		rec.Path = normalizePath(strings.TrimSpace(rec.Path))
		rec.Redirect = strings.TrimSpace(rec.Redirect)

		if !strings.HasPrefix(rec.Path, "/") {
			return nil, fmt.Errorf("%w: record %d path %q must start with /", ErrInvalidRecord, i, rec.Path)
		}
		if _, dup := t.byPattern[rec.Path]; dup {
			return nil, fmt.Errorf("%w: duplicate path %q", ErrInvalidRecord, rec.Path)
		}
		if rec.Name != "" {
			if _, dup := t.byName[rec.Name]; dup {
				return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidRecord, rec.Name)
			}
			t.byName[rec.Name] = rec
		}
		if rec.Name == "" && rec.Redirect == "" {
			return nil, fmt.Errorf("%w: path %q needs a name or a redirect", ErrInvalidRecord, rec.Path)
		}

		t.mux.Get(rec.Path, noopHandler)
		t.byPattern[rec.Path] = rec
		t.records = append(t.records, rec)
	}

	for _, rec := range t.records {
		if rec.Redirect == "" {
			continue
		}
		target, err := t.Resolve(rec.Redirect)
		if err != nil {
			return nil, fmt.Errorf("%w: redirect of %q: %v", ErrInvalidRecord, rec.Path, err)
		}
		if !target.Matched {
			return nil, fmt.Errorf("%w: redirect of %q points at unknown path %q", ErrInvalidRecord, rec.Path, rec.Redirect)
		}
	}

	return t, nil
}

// MustNew is New that panics on error. Intended for static tables.
func MustNew(records []Record) *Table {
	t, err := New(records)
	if err != nil {
		panic(err)
	}
	return t
}

// Parse builds a Table from a YAML document with a top-level `routes` list.
func Parse(data []byte) (*Table, error) {
	var doc fileTable
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse route table: %w", err)
	}
	if len(doc.Routes) == 0 {
		return nil, fmt.Errorf("%w: route table is empty", ErrInvalidRecord)
	}
	return New(doc.Routes)
}

// LoadFile reads and parses a YAML route table.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(filepath.Clean(path)) // #nosec G304 - route table path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("failed to read route table: %w", err)
	}
	return Parse(data)
}

// Records returns a copy of the table's records in declaration order.
func (t *Table) Records() []Record {
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// ByName looks up a named route.
func (t *Table) ByName(name string) (Record, bool) {
	rec, ok := t.byName[name]
	return rec, ok
}

// Resolve parses an in-app full path (path, optional query and fragment) and
// matches it against the table. Unmatched paths resolve to a protected,
// unmatched Location rather than an error.
func (t *Table) Resolve(fullPath string) (Location, error) {
	if !strings.HasPrefix(fullPath, "/") || strings.HasPrefix(fullPath, "//") {
		return Location{}, fmt.Errorf("%w: %q", ErrInvalidPath, fullPath)
	}
	u, err := url.Parse(fullPath)
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if u.Scheme != "" || u.Host != "" {
		return Location{}, fmt.Errorf("%w: %q is not an in-app path", ErrInvalidPath, fullPath)
	}

	path := normalizePath(u.Path)
	loc := Location{
		Path:         path,
		FullPath:     buildFullPath(path, u.RawQuery, u.Fragment),
		Query:        u.Query(),
		Params:       map[string]string{},
		RequiresAuth: Required(),
	}

	rctx := chi.NewRouteContext()
	if !t.mux.Match(rctx, http.MethodGet, path) {
		return loc, nil
	}

	pattern := rctx.RoutePattern()
	rec, ok := t.byPattern[pattern]
	if !ok {
		return loc, nil
	}

	for i, key := range rctx.URLParams.Keys {
		if i < len(rctx.URLParams.Values) {
			loc.Params[key] = rctx.URLParams.Values[i]
		}
	}
	loc.Name = rec.Name
	loc.Pattern = pattern
	if rec.Protected() {
		loc.RequiresAuth = Required()
	} else {
		loc.RequiresAuth = Public()
	}
	loc.Redirect = rec.Redirect
	loc.Matched = true
	return loc, nil
}

// Href builds the full path of a named route. Pattern parameters are filled
// from params; query is appended encoded.
func (t *Table) Href(name string, params map[string]string, query url.Values) (string, error) {
	rec, ok := t.byName[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoute, name)
	}

	segments := strings.Split(rec.Path, "/")
	for i, seg := range segments {
		if !strings.HasPrefix(seg, "{") || !strings.HasSuffix(seg, "}") {
			continue
		}
		key := strings.TrimSuffix(strings.TrimPrefix(seg, "{"), "}")
		if idx := strings.IndexByte(key, ':'); idx >= 0 {
			key = key[:idx]
		}
		value, ok := params[key]
		if !ok || value == "" {
			return "", fmt.Errorf("%w: %q for route %q", ErrMissingParam, key, name)
		}
		segments[i] = url.PathEscape(value)
	}

	return buildFullPath(strings.Join(segments, "/"), query.Encode(), ""), nil
}

func normalizePath(p string) string {
	if p == "" {
		return "/"
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			return "/"
		}
	}
	return p
}

func buildFullPath(path, rawQuery, fragment string) string {
	var b strings.Builder
	b.Grow(len(path) + len(rawQuery) + len(fragment) + 2)
	b.WriteString(path)
	if rawQuery != "" {
		b.WriteByte('?')
		b.WriteString(rawQuery)
	}
	if fragment != "" {
		b.WriteByte('#')
		b.WriteString(fragment)
	}
	return b.String()
}
