package siteconfig

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Accepted keys per mapping. The second spelling of a field is the VuePress
// name, so configs written for that tool need no renaming. Plugin entries with
// options ([name, {...}]) are still rejected; options are not part of the record.
var (
	rootKeys    = keySet("basePath", "base", "locales", "headTags", "head", "theme", "themeConfig", "plugins")
	localeKeys  = keySet("languageCode", "lang", "title", "description")
	headTagKeys = keySet("tagName", "attributes", "content")
	themeKeys   = keySet(
		"repoUrl", "repo",
		"editLinksEnabled", "editLinks",
		"docsDir",
		"editLinkText",
		"showActiveHeaderLinks", "activeHeaderLinks",
		"showLastUpdated", "lastUpdated",
		"navItems", "nav",
		"sidebar",
		"plugins",
	)
	navItemKeys = keySet("text", "link", "items")
	sidebarKeys = keySet("title", "path")
)

func keySet(keys ...string) map[string]bool {
	m := make(map[string]bool, len(keys))
	for _, k := range keys {
		m[k] = true
	}
	return m
}

// Option tunes a single Resolve call.
type Option func(*resolver)

// WithStrict makes Resolve reject keys it does not know instead of ignoring them.
func WithStrict() Option {
	return func(r *resolver) { r.strict = true }
}

type resolver struct {
	source DescriptionSource
	strict bool
}

// Resolve validates raw and copies it into an immutable SiteConfig.
//
// raw is the already-parsed configuration document; source supplies the
// description of every locale that omits one and may be nil when all locales
// declare their own. Checks run in a fixed order (basePath, locales, head
// tags, theme, top-level plugins; list and locale entries in declaration
// order) and the first violation is returned, so identical input always
// yields the identical error. Resolve performs no I/O and keeps no state.
func Resolve(raw *yaml.Node, source DescriptionSource, opts ...Option) (*SiteConfig, error) {
	r := &resolver{source: source}
	for _, opt := range opts {
		opt(r)
	}
	return r.resolve(raw)
}

// ResolveMap resolves a configuration held as nested Go maps and slices.
// Map keys carry no order, so they are visited sorted.
func ResolveMap(raw map[string]any, source DescriptionSource, opts ...Option) (*SiteConfig, error) {
	var node yaml.Node
	if raw == nil {
		raw = map[string]any{}
	}
	if err := node.Encode(raw); err != nil {
		return nil, invalid("", "cannot represent input: %v", err)
	}
	return Resolve(&node, source, opts...)
}

func (r *resolver) object(path string, n *yaml.Node, known map[string]bool) (*object, error) {
	obj, err := asObject(path, n)
	if err != nil {
		return nil, err
	}
	if r.strict && known != nil {
		if err := obj.rejectUnknown(known); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

func (r *resolver) resolve(raw *yaml.Node) (*SiteConfig, error) {
	if isNull(raw) {
		raw = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	}
	root, err := r.object("", raw, rootKeys)
	if err != nil {
		return nil, err
	}

	cfg := &SiteConfig{}
	if cfg.basePath, err = resolveBasePath(root); err != nil {
		return nil, err
	}
	if cfg.locales, err = r.resolveLocales(root); err != nil {
		return nil, err
	}
	if cfg.headTags, err = r.resolveHeadTags(root); err != nil {
		return nil, err
	}
	if cfg.theme, err = r.resolveTheme(root); err != nil {
		return nil, err
	}
	if err := r.resolveTopLevelPlugins(root, &cfg.theme); err != nil {
		return nil, err
	}
	return cfg, nil
}

func resolveBasePath(root *object) (string, error) {
	n, path, err := root.lookup("basePath", "base")
	if err != nil {
		return "", err
	}
	if isNull(n) {
		return "", invalid(path, "is required")
	}
	base, err := asString(path, n)
	if err != nil {
		return "", err
	}
	if err := checkBasePath(path, base); err != nil {
		return "", err
	}
	return base, nil
}

func (r *resolver) resolveLocales(root *object) ([]Locale, error) {
	n, path, err := root.lookup("locales")
	if err != nil {
		return nil, err
	}
	if isNull(n) {
		return nil, invalid(path, "at least the root locale %q is required", RootLocale)
	}
	obj, err := r.object(path, n, nil)
	if err != nil {
		return nil, err
	}
	if len(obj.members) == 0 {
		return nil, invalid(path, "at least the root locale %q is required", RootLocale)
	}

	locales := make([]Locale, 0, len(obj.members))
	hasRoot := false
	for _, m := range obj.members {
		localePath := child(path, m.key)
		if err := checkAbsolute(localePath, m.key); err != nil {
			return nil, err
		}
		info, err := r.resolveLocale(localePath, m.value)
		if err != nil {
			return nil, err
		}
		hasRoot = hasRoot || m.key == RootLocale
		locales = append(locales, Locale{Prefix: m.key, LocaleInfo: info})
	}
	if !hasRoot {
		return nil, invalid(path, "missing root locale %q", RootLocale)
	}
	return locales, nil
}

func (r *resolver) resolveLocale(path string, n *yaml.Node) (LocaleInfo, error) {
	var info LocaleInfo
	obj, err := r.object(path, n, localeKeys)
	if err != nil {
		return info, err
	}

	langNode, langPath, err := obj.lookup("languageCode", "lang")
	if err != nil {
		return info, err
	}
	if info.LanguageCode, err = asString(langPath, langNode); err != nil {
		return info, err
	}
	if err := checkLanguage(langPath, info.LanguageCode); err != nil {
		return info, err
	}

	titleNode, titlePath, err := obj.lookup("title")
	if err != nil {
		return info, err
	}
	if info.Title, err = asString(titlePath, titleNode); err != nil {
		return info, err
	}

	descNode, descPath, err := obj.lookup("description")
	if err != nil {
		return info, err
	}
	if !isNull(descNode) {
		info.Description, err = asString(descPath, descNode)
		return info, err
	}
	if r.source == nil {
		return info, missingDependency(descPath, nil)
	}
	desc, err := r.source.Description()
	if err != nil {
		return info, missingDependency(descPath, err)
	}
	if strings.TrimSpace(desc) == "" {
		return info, missingDependency(descPath, ErrDescriptionUnavailable)
	}
	info.Description = desc
	return info, nil
}

func (r *resolver) resolveHeadTags(root *object) ([]HeadTag, error) {
	n, path, err := root.lookup("headTags", "head")
	if err != nil {
		return nil, err
	}
	items, err := asList(path, n)
	if err != nil {
		return nil, err
	}
	tags := make([]HeadTag, 0, len(items))
	for i, it := range items {
		tag, err := r.resolveHeadTag(item(path, i), it)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// resolveHeadTag accepts {tagName, attributes, content} or the tuple form
// [tagName, attributes?, content?].
func (r *resolver) resolveHeadTag(path string, n *yaml.Node) (HeadTag, error) {
	var (
		tag                        HeadTag
		nameNode, attrs, content   *yaml.Node
		namePath, attrsPath, cPath string
	)
	if d := deref(n); d != nil && d.Kind == yaml.SequenceNode {
		if len(d.Content) == 0 || len(d.Content) > 3 {
			return tag, invalid(path, "expected [tagName, attributes, content], got %d elements", len(d.Content))
		}
		nameNode, namePath = d.Content[0], item(path, 0)
		attrsPath, cPath = item(path, 1), item(path, 2)
		if len(d.Content) > 1 {
			attrs = d.Content[1]
		}
		if len(d.Content) > 2 {
			content = d.Content[2]
		}
	} else {
		obj, err := r.object(path, n, headTagKeys)
		if err != nil {
			return tag, err
		}
		if nameNode, namePath, err = obj.lookup("tagName"); err != nil {
			return tag, err
		}
		if attrs, attrsPath, err = obj.lookup("attributes"); err != nil {
			return tag, err
		}
		if content, cPath, err = obj.lookup("content"); err != nil {
			return tag, err
		}
	}

	name, err := asString(namePath, nameNode)
	if err != nil {
		return tag, err
	}
	if tag.TagName, err = checkTagName(namePath, name); err != nil {
		return tag, err
	}

	tag.Attributes = map[string]string{}
	if !isNull(attrs) {
		obj, err := r.object(attrsPath, attrs, nil)
		if err != nil {
			return tag, err
		}
		for _, m := range obj.members {
			attrPath := child(attrsPath, m.key)
			if m.key == "" {
				return tag, invalid(attrPath, "attribute name is required")
			}
			if tag.Attributes[m.key], err = asText(attrPath, m.value); err != nil {
				return tag, err
			}
		}
	}

	if tag.Content, err = asString(cPath, content); err != nil {
		return tag, err
	}
	return tag, nil
}

func (r *resolver) resolveTheme(root *object) (ThemeConfig, error) {
	theme := ThemeConfig{NavItems: []NavItem{}, Sidebar: []SidebarEntry{}, Plugins: []string{}}
	n, path, err := root.lookup("theme", "themeConfig")
	if err != nil || isNull(n) {
		return theme, err
	}
	obj, err := r.object(path, n, themeKeys)
	if err != nil {
		return theme, err
	}

	strField := func(dst *string, names ...string) error {
		v, p, err := obj.lookup(names...)
		if err != nil {
			return err
		}
		*dst, err = asString(p, v)
		return err
	}
	boolField := func(dst *bool, names ...string) error {
		v, p, err := obj.lookup(names...)
		if err != nil {
			return err
		}
		*dst, err = asBool(p, v)
		return err
	}

	if err := strField(&theme.RepoURL, "repoUrl", "repo"); err != nil {
		return theme, err
	}
	if err := boolField(&theme.EditLinksEnabled, "editLinksEnabled", "editLinks"); err != nil {
		return theme, err
	}
	if err := strField(&theme.DocsDir, "docsDir"); err != nil {
		return theme, err
	}
	if err := strField(&theme.EditLinkText, "editLinkText"); err != nil {
		return theme, err
	}
	if err := boolField(&theme.ShowActiveHeaderLinks, "showActiveHeaderLinks", "activeHeaderLinks"); err != nil {
		return theme, err
	}
	if err := resolveLastUpdated(obj, &theme); err != nil {
		return theme, err
	}
	if theme.NavItems, err = r.resolveNav(obj); err != nil {
		return theme, err
	}
	if theme.Sidebar, err = r.resolveSidebar(obj); err != nil {
		return theme, err
	}
	plugins, pluginsPath, err := obj.lookup("plugins")
	if err != nil {
		return theme, err
	}
	if theme.Plugins, err = resolvePlugins(pluginsPath, plugins); err != nil {
		return theme, err
	}
	return theme, nil
}

// resolveLastUpdated accepts a boolean or, as VuePress does, a non-empty label
// that both enables the timestamp and names it.
func resolveLastUpdated(obj *object, theme *ThemeConfig) error {
	v, p, err := obj.lookup("showLastUpdated", "lastUpdated")
	if err != nil || isNull(v) {
		return err
	}
	if d := deref(v); d.Kind == yaml.ScalarNode && d.ShortTag() == "!!str" {
		theme.LastUpdatedText = d.Value
		theme.ShowLastUpdated = d.Value != ""
		return nil
	}
	theme.ShowLastUpdated, err = asBool(p, v)
	return err
}

func (r *resolver) resolveNav(obj *object) ([]NavItem, error) {
	n, path, err := obj.lookup("navItems", "nav")
	if err != nil {
		return nil, err
	}
	return r.resolveNavList(path, n, 0)
}

// maxNavDepth matches VuePress: a dropdown may hold sub-groups of links, no deeper.
const maxNavDepth = 2

func (r *resolver) resolveNavList(path string, n *yaml.Node, depth int) ([]NavItem, error) {
	items, err := asList(path, n)
	if err != nil {
		return nil, err
	}
	nav := make([]NavItem, 0, len(items))
	for i, it := range items {
		ni, err := r.resolveNavItem(item(path, i), it, depth)
		if err != nil {
			return nil, err
		}
		nav = append(nav, ni)
	}
	return nav, nil
}

// resolveNavItem accepts a link {text, link} or a dropdown group {text, items}.
func (r *resolver) resolveNavItem(path string, n *yaml.Node, depth int) (NavItem, error) {
	var ni NavItem
	entry, err := r.object(path, n, navItemKeys)
	if err != nil {
		return ni, err
	}
	textNode, textPath, err := entry.lookup("text")
	if err != nil {
		return ni, err
	}
	if ni.Text, err = asString(textPath, textNode); err != nil {
		return ni, err
	}
	if ni.Text == "" {
		return ni, invalid(textPath, "must not be empty")
	}

	linkNode, linkPath, err := entry.lookup("link")
	if err != nil {
		return ni, err
	}
	itemsNode, itemsPath, err := entry.lookup("items")
	if err != nil {
		return ni, err
	}
	if !isNull(itemsNode) {
		if !isNull(linkNode) {
			return ni, invalid(linkPath, "a dropdown group has no link of its own")
		}
		if depth >= maxNavDepth {
			return ni, invalid(itemsPath, "dropdowns nest at most %d levels", maxNavDepth)
		}
		if ni.Items, err = r.resolveNavList(itemsPath, itemsNode, depth+1); err != nil {
			return ni, err
		}
		if len(ni.Items) == 0 {
			return ni, invalid(itemsPath, "must not be empty")
		}
		return ni, nil
	}

	if ni.Link, err = asString(linkPath, linkNode); err != nil {
		return ni, err
	}
	if err := checkLink(linkPath, ni.Link); err != nil {
		return ni, err
	}
	return ni, nil
}

func (r *resolver) resolveSidebar(obj *object) ([]SidebarEntry, error) {
	n, path, err := obj.lookup("sidebar")
	if err != nil {
		return nil, err
	}
	items, err := asList(path, n)
	if err != nil {
		return nil, err
	}
	sidebar := make([]SidebarEntry, 0, len(items))
	for i, it := range items {
		itemPath := item(path, i)
		entry, err := r.object(itemPath, it, sidebarKeys)
		if err != nil {
			return nil, err
		}
		var se SidebarEntry
		titleNode, titlePath, err := entry.lookup("title")
		if err != nil {
			return nil, err
		}
		if se.Title, err = asString(titlePath, titleNode); err != nil {
			return nil, err
		}
		if se.Title == "" {
			return nil, invalid(titlePath, "must not be empty")
		}
		pathNode, pathPath, err := entry.lookup("path")
		if err != nil {
			return nil, err
		}
		if se.Path, err = asString(pathPath, pathNode); err != nil {
			return nil, err
		}
		if err := checkAbsolute(pathPath, se.Path); err != nil {
			return nil, err
		}
		sidebar = append(sidebar, se)
	}
	return sidebar, nil
}

// resolveTopLevelPlugins folds the VuePress top-level plugin list into the theme.
func (r *resolver) resolveTopLevelPlugins(root *object, theme *ThemeConfig) error {
	n, path, err := root.lookup("plugins")
	if err != nil || isNull(n) {
		return err
	}
	if themeNode, themePath, _ := root.lookup("theme", "themeConfig"); !isNull(themeNode) {
		if obj, err := asObject(themePath, themeNode); err == nil {
			if _, ok := obj.index["plugins"]; ok {
				return invalid(path, "conflicts with %q", child(themePath, "plugins"))
			}
		}
	}
	theme.Plugins, err = resolvePlugins(path, n)
	return err
}

func resolvePlugins(path string, n *yaml.Node) ([]string, error) {
	items, err := asList(path, n)
	if err != nil {
		return nil, err
	}
	plugins := make([]string, 0, len(items))
	seen := make(map[string]int, len(items))
	for i, it := range items {
		itemPath := item(path, i)
		name, err := asString(itemPath, it)
		if err != nil {
			return nil, err
		}
		if name == "" {
			return nil, invalid(itemPath, "plugin name must not be empty")
		}
		if first, dup := seen[name]; dup {
			return nil, invalid(itemPath, "duplicate plugin %q (first declared at %s)", name, item(path, first))
		}
		seen[name] = i
		plugins = append(plugins, name)
	}
	return plugins, nil
}
