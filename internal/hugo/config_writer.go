package hugo

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
	"git.home.luguber.info/inful/docsite/internal/logfields"
	"git.home.luguber.info/inful/docsite/internal/siteconfig"
)

// ConfigFileName is the file Hugo reads its site configuration from.
const ConfigFileName = "hugo.yaml"

// Options tunes the export.
type Options struct {
	// SiteURL is the scheme and host the site is published on. When empty,
	// baseURL is the bare base path.
	SiteURL string
}

// BuildConfig maps a resolved SiteConfig onto a Hugo configuration document.
func BuildConfig(cfg *siteconfig.SiteConfig, opts Options) map[string]any {
	theme := cfg.Theme()
	root := cfg.Root()

	// Phase 1: core settings
	doc := map[string]any{
		"baseURL":       baseURL(opts.SiteURL, cfg.BasePath()),
		"title":         root.Title,
		"languageCode":  root.LanguageCode,
		"enableGitInfo": theme.ShowLastUpdated,
	}

	// Phase 2: languages, weighted in declaration order with the root first
	languages := map[string]any{}
	keys := languageKeys(cfg.Locales())
	for i, l := range cfg.Locales() {
		entry := map[string]any{
			"title":  l.Title,
			"weight": i + 1,
			"params": map[string]any{"description": l.Description},
		}
		if l.LanguageCode != "" {
			entry["languageCode"] = l.LanguageCode
		}
		if l.Prefix == siteconfig.RootLocale {
			doc["defaultContentLanguage"] = keys[i]
		}
		languages[keys[i]] = entry
	}
	doc["languages"] = languages

	// Phase 3: menus
	menu := map[string]any{}
	if len(theme.NavItems) > 0 {
		menu["main"] = mainMenu(nil, "", "nav", theme.NavItems)
	}
	if len(theme.Sidebar) > 0 {
		sidebar := make([]map[string]any, 0, len(theme.Sidebar))
		for i, s := range theme.Sidebar {
			sidebar = append(sidebar, map[string]any{"name": s.Title, "pageRef": s.Path, "weight": i + 1})
		}
		menu["sidebar"] = sidebar
	}
	if len(menu) > 0 {
		doc["menu"] = menu
	}

	// Phase 4: theme params
	params := map[string]any{
		"description":           root.Description,
		"editLinks":             theme.EditLinksEnabled,
		"showActiveHeaderLinks": theme.ShowActiveHeaderLinks,
		"plugins":               theme.Plugins,
	}
	if theme.RepoURL != "" {
		params["repo"] = theme.RepoURL
	}
	if theme.DocsDir != "" {
		params["docsDir"] = theme.DocsDir
	}
	if theme.EditLinkText != "" {
		params["editLinkText"] = theme.EditLinkText
	}
	if theme.LastUpdatedText != "" {
		params["lastUpdatedText"] = theme.LastUpdatedText
	}
	if tags := cfg.HeadTags(); len(tags) > 0 {
		head := make([]map[string]any, 0, len(tags))
		for _, t := range tags {
			h := map[string]any{"tag": t.TagName, "attributes": t.Attributes}
			if t.Content != "" {
				h["content"] = t.Content
			}
			head = append(head, h)
		}
		params["head"] = head
	}
	doc["params"] = params

	return doc
}

// WriteConfig writes hugo.yaml into dir and returns its path.
func WriteConfig(dir string, cfg *siteconfig.SiteConfig, opts Options) (string, error) {
	data, err := yaml.Marshal(BuildConfig(cfg, opts))
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryInternal, "failed to marshal Hugo config").Build()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to create output directory "+dir).Build()
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "failed to write Hugo config "+path).Build()
	}
	slog.Info("Generated Hugo configuration", logfields.Path(path))
	return path, nil
}

// mainMenu flattens nav items into Hugo menu entries. Dropdown groups become
// parent entries with a generated identifier that their children reference.
func mainMenu(out []map[string]any, parent, id string, items []siteconfig.NavItem) []map[string]any {
	for i, n := range items {
		entry := map[string]any{"name": n.Text, "weight": i + 1}
		if parent != "" {
			entry["parent"] = parent
		}
		if len(n.Items) > 0 {
			ident := fmt.Sprintf("%s-%d", id, i+1)
			entry["identifier"] = ident
			out = append(out, entry)
			out = mainMenu(out, ident, ident, n.Items)
			continue
		}
		entry["url"] = n.Link
		out = append(out, entry)
	}
	return out
}

func baseURL(siteURL, basePath string) string {
	if siteURL == "" {
		return basePath
	}
	return strings.TrimSuffix(siteURL, "/") + basePath
}

// languageKeys derives Hugo language keys: the prefix without slashes for
// sub-locales, the base language for the root locale. Collisions get a numeric suffix.
func languageKeys(locales []siteconfig.Locale) []string {
	keys := make([]string, len(locales))
	used := map[string]bool{}
	for i, l := range locales {
		key := strings.ToLower(strings.Trim(l.Prefix, "/"))
		if l.Prefix == siteconfig.RootLocale {
			key = "en"
			if l.LanguageCode != "" {
				if base, conf := language.Make(l.LanguageCode).Base(); conf != language.No {
					key = base.String()
				}
			}
		}
		key = strings.ReplaceAll(key, "/", "-")
		candidate := key
		for n := 2; used[candidate]; n++ {
			candidate = fmt.Sprintf("%s-%d", key, n)
		}
		used[candidate] = true
		keys[i] = candidate
	}
	return keys
}
