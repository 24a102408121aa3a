package route

import (
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTableResolvesConsoleRoutes(t *testing.T) {
	table := DefaultTable()

	loc, err := table.Resolve("/dashboard")
	require.NoError(t, err)
	assert.True(t, loc.Matched)
	assert.Equal(t, NameDashboard, loc.Name)
	assert.True(t, loc.Protected())
	assert.Equal(t, "/dashboard", loc.FullPath)

	login, err := table.Resolve("/login?redirect=/templates")
	require.NoError(t, err)
	assert.Equal(t, NameLogin, login.Name)
	assert.False(t, login.Protected())
	assert.Equal(t, "/templates", login.Query.Get("redirect"))
	assert.Equal(t, "/login?redirect=/templates", login.FullPath)
}

func TestResolveExtractsPatternParams(t *testing.T) {
	table := DefaultTable()

	loc, err := table.Resolve("/nodes/42/network?range=24h")
	require.NoError(t, err)
	assert.True(t, loc.Matched)
	assert.Equal(t, NameNodeNetwork, loc.Name)
	assert.Equal(t, "/nodes/{id}/network", loc.Pattern)
	assert.Equal(t, "42", loc.Params["id"])
	assert.Equal(t, "24h", loc.Query.Get("range"))
	assert.Equal(t, "/nodes/42/network?range=24h", loc.FullPath)
}

func TestResolveIgnoresTrailingSlash(t *testing.T) {
	loc, err := DefaultTable().Resolve("/templates/")
	require.NoError(t, err)
	assert.True(t, loc.Matched)
	assert.Equal(t, NameTemplates, loc.Name)
	assert.Equal(t, "/templates", loc.Path)
}

func TestResolveUnknownPathIsProtectedAndUnmatched(t *testing.T) {
	loc, err := DefaultTable().Resolve("/does-not-exist")
	require.NoError(t, err)
	assert.False(t, loc.Matched)
	assert.True(t, loc.Protected())
	assert.Empty(t, loc.Name)
}

func TestResolveRootCarriesStaticRedirect(t *testing.T) {
	loc, err := DefaultTable().Resolve("/")
	require.NoError(t, err)
	assert.True(t, loc.Matched)
	assert.Equal(t, "/dashboard", loc.Redirect)
}

func TestResolveRejectsNonAppPaths(t *testing.T) {
	table := DefaultTable()
	for _, in := range []string{"", "dashboard", "//evil.example/x", "https://evil.example/"} {
		_, err := table.Resolve(in)
		assert.ErrorIs(t, err, ErrInvalidPath, "input %q", in)
	}
}

func TestHrefBuildsEncodedLoginRedirect(t *testing.T) {
	table := DefaultTable()

	href, err := table.Href(NameLogin, nil, url.Values{"redirect": {"/dashboard"}})
	require.NoError(t, err)
	assert.Equal(t, "/login?redirect=%2Fdashboard", href)

	network, err := table.Href(NameNodeNetwork, map[string]string{"id": "7"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "/nodes/7/network", network)

	_, err = table.Href(NameNodeNetwork, nil, nil)
	assert.ErrorIs(t, err, ErrMissingParam)

	_, err = table.Href("missing", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownRoute)
}

func TestNewRejectsInvalidRecords(t *testing.T) {
	cases := map[string][]Record{
		"relative path":     {{Name: "a", Path: "a"}},
		"duplicate path":    {{Name: "a", Path: "/a"}, {Name: "b", Path: "/a"}},
		"duplicate name":    {{Name: "a", Path: "/a"}, {Name: "a", Path: "/b"}},
		"anonymous record":  {{Path: "/a"}},
		"dangling redirect": {{Path: "/", Redirect: "/nowhere"}},
	}
	for name, records := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := New(records)
			assert.ErrorIs(t, err, ErrInvalidRecord)
		})
	}
}

func TestRecordProtectedDefaultsToTrue(t *testing.T) {
	assert.True(t, Record{Path: "/x"}.Protected())
	assert.False(t, Record{Path: "/x", RequiresAuth: Public()}.Protected())
}

func TestParseAndLoadFileYAML(t *testing.T) {
	doc := []byte(`
routes:
  - path: /
    redirect: /overview
  - name: login
    path: /login
    requires_auth: false
  - name: overview
    path: /overview
  - name: ca
    path: /ca/{section}
`)

	table, err := Parse(doc)
	require.NoError(t, err)

	login, ok := table.ByName("login")
	require.True(t, ok)
	assert.False(t, login.Protected())

	loc, err := table.Resolve("/ca/certificate")
	require.NoError(t, err)
	assert.Equal(t, "ca", loc.Name)
	assert.Equal(t, "certificate", loc.Params["section"])

	path := filepath.Join(t.TempDir(), "routes.yaml")
	require.NoError(t, os.WriteFile(path, doc, 0o600))
	fromFile, err := LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, fromFile.Records(), 4)
}

func TestParseRejectsEmptyOrBrokenDocuments(t *testing.T) {
	_, err := Parse([]byte("routes: []\n"))
	assert.ErrorIs(t, err, ErrInvalidRecord)

	_, err = Parse([]byte("routes: [\n"))
	assert.Error(t, err)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLocationWithoutFlagIsProtected(t *testing.T) {
	assert.True(t, Location{Path: "/x"}.Protected())
	assert.True(t, Location{Path: "/x", RequiresAuth: Required()}.Protected())
	assert.False(t, Location{Path: "/x", RequiresAuth: Public()}.Protected())
}
