package siteconfig

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parse(t *testing.T, src string) *yaml.Node {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &n))
	return &n
}

const minimal = `
basePath: /docs/
locales:
  /:
    languageCode: en-US
    title: Docs
    description: Project documentation
`

func TestResolve_EndToEnd(t *testing.T) {
	raw := map[string]any{
		"basePath": "/docs/",
		"locales": map[string]any{
			"/": map[string]any{"languageCode": "ko-KR", "title": "Documents"},
		},
		"theme": map[string]any{
			"sidebar": []any{map[string]any{"title": "Guide", "path": "/guide/"}},
			"plugins": []any{"zoom"},
		},
	}

	cfg, err := ResolveMap(raw, StaticDescription("A doc site"))
	require.NoError(t, err)

	assert.Equal(t, "/docs/", cfg.BasePath())
	assert.Equal(t, LocaleInfo{LanguageCode: "ko-KR", Title: "Documents", Description: "A doc site"}, cfg.Root())
	assert.Equal(t, []string{"zoom"}, cfg.Theme().Plugins)
	assert.Equal(t, []SidebarEntry{{Title: "Guide", Path: "/guide/"}}, cfg.Theme().Sidebar)
	assert.Empty(t, cfg.HeadTags())
}

func TestResolve_BasePathPreserved(t *testing.T) {
	for _, base := range []string{"/", "/docs/", "/a/b/c/", "/documents/"} {
		t.Run(base, func(t *testing.T) {
			cfg, err := ResolveMap(map[string]any{
				"basePath": base,
				"locales":  map[string]any{"/": map[string]any{"description": "d"}},
			}, nil)
			require.NoError(t, err)
			assert.Equal(t, base, cfg.BasePath())
		})
	}
}

func TestResolve_BasePathErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"missing", "locales: {/: {description: d}}"},
		{"null", "basePath: null\nlocales: {/: {description: d}}"},
		{"empty", "basePath: ''\nlocales: {/: {description: d}}"},
		{"no leading slash", "basePath: docs/\nlocales: {/: {description: d}}"},
		{"no trailing slash", "basePath: /docs\nlocales: {/: {description: d}}"},
		{"query", "basePath: /docs/?x=1/\nlocales: {/: {description: d}}"},
		{"not a string", "basePath: [a]\nlocales: {/: {description: d}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Resolve(parse(t, tt.src), nil)
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, IsValidationError(err), "got %v", err)
			assert.Equal(t, "basePath", FieldOf(err))
		})
	}
}

func TestResolve_EmptyDocumentFailsOnBasePath(t *testing.T) {
	_, err := Resolve(parse(t, ""), nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "basePath", FieldOf(err))

	_, err = ResolveMap(nil, nil)
	assert.True(t, IsValidationError(err))
}

func TestResolve_LocaleErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"missing", "basePath: /", "locales"},
		{"empty mapping", "basePath: /\nlocales: {}", "locales"},
		{"no root", "basePath: /\nlocales: {/en/: {description: d}}", "locales"},
		{"relative prefix", "basePath: /\nlocales: {/: {description: d}, en/: {description: d}}", `locales["en/"]`},
		{"duplicate prefix", "basePath: /\nlocales:\n  /:\n    description: a\n  /:\n    description: b\n", `locales["/"]`},
		{"not a mapping", "basePath: /\nlocales: [a]", "locales"},
		{"bad language", "basePath: /\nlocales: {/: {lang: 'not a tag!', description: d}}", `locales["/"].lang`},
		{"title not a string", "basePath: /\nlocales: {/: {title: [x], description: d}}", `locales["/"].title`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(parse(t, tt.src), StaticDescription("fallback"))
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %v", err)
			assert.Equal(t, tt.field, FieldOf(err))
		})
	}
}

func TestResolve_MissingDescription(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		_, err := Resolve(parse(t, "basePath: /\nlocales: {/: {title: T}}"), nil)
		require.Error(t, err)
		assert.True(t, IsMissingDependency(err))
		assert.False(t, IsValidationError(err))
		assert.Equal(t, `locales["/"].description`, FieldOf(err))
	})

	t.Run("source unavailable", func(t *testing.T) {
		src := DescriptionFunc(func() (string, error) { return "", ErrDescriptionUnavailable })
		_, err := Resolve(parse(t, "basePath: /\nlocales: {/: {title: T}}"), src)
		require.Error(t, err)
		assert.True(t, IsMissingDependency(err))
		assert.True(t, errors.Is(err, ErrDescriptionUnavailable))
	})

	t.Run("blank value counts as not supplied", func(t *testing.T) {
		for name, src := range map[string]DescriptionSource{
			"static":   StaticDescription(""),
			"function": DescriptionFunc(func() (string, error) { return "  ", nil }),
		} {
			_, err := Resolve(parse(t, "basePath: /\nlocales: {/: {title: T}}"), src)
			require.Error(t, err, name)
			assert.True(t, IsMissingDependency(err), name)
			assert.True(t, errors.Is(err, ErrDescriptionUnavailable), name)
			assert.Equal(t, `locales["/"].description`, FieldOf(err), name)
		}
	})

	t.Run("explicit description needs no source", func(t *testing.T) {
		cfg, err := Resolve(parse(t, minimal), nil)
		require.NoError(t, err)
		assert.Equal(t, "Project documentation", cfg.Root().Description)
	})

	t.Run("explicit empty description is kept", func(t *testing.T) {
		cfg, err := Resolve(parse(t, "basePath: /\nlocales: {/: {description: ''}}"), StaticDescription("fallback"))
		require.NoError(t, err)
		assert.Equal(t, "", cfg.Root().Description)
	})
}

func TestResolve_DescriptionSourceCalledPerLocale(t *testing.T) {
	calls := 0
	src := DescriptionFunc(func() (string, error) {
		calls++
		return "shared", nil
	})
	cfg, err := Resolve(parse(t, `
basePath: /
locales:
  /: {lang: en-US, title: English}
  /ko/: {lang: ko-KR, title: Korean, description: 한국어 문서}
  /de/: {lang: de-DE, title: Deutsch}
`), src)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	prefixes := []string{}
	for _, l := range cfg.Locales() {
		prefixes = append(prefixes, l.Prefix)
	}
	assert.Equal(t, []string{"/", "/ko/", "/de/"}, prefixes)

	ko, ok := cfg.Locale("/ko/")
	require.True(t, ok)
	assert.Equal(t, "한국어 문서", ko.Description)
	de, _ := cfg.Locale("/de/")
	assert.Equal(t, "shared", de.Description)
	_, ok = cfg.Locale("/fr/")
	assert.False(t, ok)
}

func TestResolve_SidebarOrderPreserved(t *testing.T) {
	cfg, err := Resolve(parse(t, minimal+`
theme:
  sidebar:
    - {title: A, path: /a/}
    - {title: B, path: /b/}
`), nil)
	require.NoError(t, err)
	assert.Equal(t, []SidebarEntry{{Title: "A", Path: "/a/"}, {Title: "B", Path: "/b/"}}, cfg.Theme().Sidebar)
}

func TestResolve_SidebarErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		field string
	}{
		{"empty title", "{title: '', path: /a/}", "theme.sidebar[1].title"},
		{"missing title", "{path: /a/}", "theme.sidebar[1].title"},
		{"relative path", "{title: A, path: a/}", "theme.sidebar[1].path"},
		{"missing path", "{title: A}", "theme.sidebar[1].path"},
		{"bare string", "/a/", "theme.sidebar[1]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := minimal + "theme:\n  sidebar:\n    - {title: Ok, path: /ok/}\n    - " + tt.entry + "\n"
			_, err := Resolve(parse(t, src), nil)
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %v", err)
			assert.Equal(t, tt.field, FieldOf(err))
		})
	}
}

func TestResolve_DuplicatePlugins(t *testing.T) {
	_, err := Resolve(parse(t, minimal+"theme:\n  plugins: [x, x]\n"), nil)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "theme.plugins[1]", FieldOf(err))

	_, err = Resolve(parse(t, minimal+"plugins: [x, y, x]\n"), nil)
	require.Error(t, err)
	assert.Equal(t, "plugins[2]", FieldOf(err))

	_, err = Resolve(parse(t, minimal+"plugins: ['']\n"), nil)
	assert.Equal(t, "plugins[0]", FieldOf(err))
}

func TestResolve_Idempotent(t *testing.T) {
	node := parse(t, vuepressConfig)
	a, err := Resolve(node, StaticDescription("A doc site"))
	require.NoError(t, err)
	b, err := Resolve(node, StaticDescription("A doc site"))
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	if diff := cmp.Diff(a, b, cmp.AllowUnexported(SiteConfig{})); diff != "" {
		t.Fatalf("repeated resolution differs (-first +second):\n%s", diff)
	}
}

func TestResolve_FirstViolationIsDeterministic(t *testing.T) {
	src := `
basePath: docs
locales: {}
theme:
  plugins: [a, a]
`
	var first string
	for i := 0; i < 5; i++ {
		_, err := Resolve(parse(t, src), nil)
		require.Error(t, err)
		if i == 0 {
			first = err.Error()
		}
		assert.Equal(t, first, err.Error())
	}
	assert.Contains(t, first, "basePath")
}

func TestResolve_EmptyThemeValuesAreValid(t *testing.T) {
	cfg, err := Resolve(parse(t, minimal+`
theme:
  repoUrl: ''
  editLinksEnabled: false
  docsDir: ''
  editLinkText: ''
  navItems: []
  sidebar: []
  plugins: []
`), nil)
	require.NoError(t, err)
	theme := cfg.Theme()
	assert.Empty(t, theme.RepoURL)
	assert.Empty(t, theme.DocsDir)
	assert.NotNil(t, theme.NavItems)
	assert.Empty(t, theme.NavItems)
	assert.Empty(t, theme.Sidebar)
	assert.Empty(t, theme.Plugins)

	bare, err := Resolve(parse(t, minimal), nil)
	require.NoError(t, err)
	assert.Equal(t, theme, bare.Theme())
}

func TestResolve_ThemeTypeErrors(t *testing.T) {
	tests := []struct {
		name  string
		theme string
		field string
	}{
		{"bool as string", "editLinksEnabled: 'yes'", "theme.editLinksEnabled"},
		{"list as scalar", "sidebar: /a/", "theme.sidebar"},
		{"repo as list", "repoUrl: [x]", "theme.repoUrl"},
		{"plugin with options", "plugins: [[zoom, {selector: img}]]", "theme.plugins[0]"},
		{"theme as list", "", "theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := minimal + "theme:\n  " + tt.theme + "\n"
			if tt.theme == "" {
				src = minimal + "theme: [a]\n"
			}
			_, err := Resolve(parse(t, src), nil)
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %v", err)
			assert.Equal(t, tt.field, FieldOf(err))
		})
	}
}

func TestResolve_NavDropdowns(t *testing.T) {
	cfg, err := Resolve(parse(t, minimal+`
themeConfig:
  nav:
    - text: Guides
      items:
        - {text: Rendering, link: /rendering/}
        - text: External
          items:
            - {text: Chromium, link: 'https://www.chromium.org/'}
`), nil)
	require.NoError(t, err)
	nav := cfg.Theme().NavItems
	require.Len(t, nav, 1)
	assert.Equal(t, NavItem{
		Text: "Guides",
		Items: []NavItem{
			{Text: "Rendering", Link: "/rendering/"},
			{Text: "External", Items: []NavItem{{Text: "Chromium", Link: "https://www.chromium.org/"}}},
		},
	}, nav[0])

	nav[0].Items[1].Items[0].Link = "/changed/"
	assert.Equal(t, "https://www.chromium.org/", cfg.Theme().NavItems[0].Items[1].Items[0].Link)

	tests := []struct {
		name  string
		nav   string
		field string
	}{
		{"group with link", "{text: G, link: /g/, items: [{text: A, link: /a/}]}", "theme.navItems[0].link"},
		{"empty group", "{text: G, items: []}", "theme.navItems[0].items"},
		{"bad child link", "{text: G, items: [{text: A, link: a}]}", "theme.navItems[0].items[0].link"},
		{"too deep", "{text: G, items: [{text: H, items: [{text: I, items: [{text: A, link: /a/}]}]}]}", "theme.navItems[0].items[0].items[0].items"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(parse(t, minimal+"theme:\n  navItems:\n    - "+tt.nav+"\n"), nil)
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %v", err)
			assert.Equal(t, tt.field, FieldOf(err))
		})
	}
}

func TestResolve_NavItems(t *testing.T) {
	cfg, err := Resolve(parse(t, minimal+`
theme:
  nav:
    - {text: Home, link: /}
    - {text: GitHub, link: 'https://github.com/example/docs'}
`), nil)
	require.NoError(t, err)
	assert.Equal(t, []NavItem{
		{Text: "Home", Link: "/"},
		{Text: "GitHub", Link: "https://github.com/example/docs"},
	}, cfg.Theme().NavItems)

	for _, bad := range []string{"{text: '', link: /}", "{text: X, link: relative}", "{text: X, link: 'ftp://host/x'}", "{text: X}"} {
		_, err := Resolve(parse(t, minimal+"theme:\n  navItems:\n    - "+bad+"\n"), nil)
		assert.True(t, IsValidationError(err), "%s: got %v", bad, err)
	}
}

func TestResolve_LastUpdatedLabel(t *testing.T) {
	cfg, err := Resolve(parse(t, minimal+"theme:\n  lastUpdated: Last Updated\n"), nil)
	require.NoError(t, err)
	assert.True(t, cfg.Theme().ShowLastUpdated)
	assert.Equal(t, "Last Updated", cfg.Theme().LastUpdatedText)

	cfg, err = Resolve(parse(t, minimal+"theme:\n  showLastUpdated: true\n"), nil)
	require.NoError(t, err)
	assert.True(t, cfg.Theme().ShowLastUpdated)
	assert.Empty(t, cfg.Theme().LastUpdatedText)
}

func TestResolve_AliasConflicts(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		field string
	}{
		{"base and basePath", "basePath: /\nbase: /x/\nlocales: {/: {description: d}}", "base"},
		{"theme and themeConfig", minimal + "themeConfig: {}\ntheme: {}\n", "theme"},
		{"lang and languageCode", "basePath: /\nlocales: {/: {lang: en, languageCode: en, description: d}}", `locales["/"].languageCode`},
		{"plugins in both places", minimal + "theme: {plugins: [a]}\nplugins: [b]\n", "plugins"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(parse(t, tt.src), nil)
			require.Error(t, err)
			assert.True(t, IsValidationError(err), "got %v", err)
			assert.Equal(t, tt.field, FieldOf(err))
		})
	}
}

func TestResolve_StrictUnknownKeys(t *testing.T) {
	src := minimal + "dest: public\ntheme:\n  sidebarDepth: 2\n"

	_, err := Resolve(parse(t, src), nil)
	require.NoError(t, err, "lenient mode ignores keys owned by the host tool")

	_, err = Resolve(parse(t, src), nil, WithStrict())
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	assert.Equal(t, "dest", FieldOf(err))
}

func TestResolve_AccessorsReturnCopies(t *testing.T) {
	cfg, err := Resolve(parse(t, vuepressConfig), StaticDescription("A doc site"))
	require.NoError(t, err)

	theme := cfg.Theme()
	theme.Sidebar[0].Title = "changed"
	theme.Plugins = append(theme.Plugins[:0], "other")
	tags := cfg.HeadTags()
	tags[0].Attributes["name"] = "changed"
	locales := cfg.Locales()
	locales[0].Title = "changed"

	assert.Equal(t, "브라우저는 어떻게 동작하는가?", cfg.Theme().Sidebar[0].Title)
	assert.Equal(t, "@vuepress/plugin-back-to-top", cfg.Theme().Plugins[0])
	assert.Equal(t, "theme-color", cfg.HeadTags()[0].Attributes["name"])
	assert.Equal(t, "Documents", cfg.Root().Title)
}

func TestResolve_ConcurrentCalls(t *testing.T) {
	node := parse(t, vuepressConfig)
	want, err := Resolve(node, StaticDescription("A doc site"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*SiteConfig, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Resolve(node, StaticDescription("A doc site"))
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Empty(t, cmp.Diff(want, got, cmp.AllowUnexported(SiteConfig{})))
	}
}
