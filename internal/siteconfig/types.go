package siteconfig

import (
	"maps"
	"slices"
)

// RootLocale is the locale prefix every site must declare.
const RootLocale = "/"

// SiteConfig is the validated, read-only configuration of a documentation site.
// It is only produced by Resolve; accessors hand out copies so the record stays
// unchanged for the lifetime of the process.
type SiteConfig struct {
	basePath string
	locales  []Locale
	headTags []HeadTag
	theme    ThemeConfig
}

// Locale pairs a URL path prefix with its locale settings.
type Locale struct {
	Prefix string
	LocaleInfo
}

// LocaleInfo describes one language variant of the site.
type LocaleInfo struct {
	LanguageCode string `yaml:"languageCode" json:"languageCode"`
	Title        string `yaml:"title" json:"title"`
	Description  string `yaml:"description" json:"description"`
}

// HeadTag is an element injected into every rendered page's <head>.
type HeadTag struct {
	TagName    string            `yaml:"tagName" json:"tagName"`
	Attributes map[string]string `yaml:"attributes" json:"attributes"`
	// Content is the optional inner text (inline scripts and styles).
	Content string `yaml:"content,omitempty" json:"content,omitempty"`
}

// ThemeConfig carries the theme options consumed by the rendering pipeline.
type ThemeConfig struct {
	RepoURL               string         `yaml:"repoUrl" json:"repoUrl"`
	EditLinksEnabled      bool           `yaml:"editLinksEnabled" json:"editLinksEnabled"`
	DocsDir               string         `yaml:"docsDir" json:"docsDir"`
	EditLinkText          string         `yaml:"editLinkText" json:"editLinkText"`
	ShowActiveHeaderLinks bool           `yaml:"showActiveHeaderLinks" json:"showActiveHeaderLinks"`
	ShowLastUpdated       bool           `yaml:"showLastUpdated" json:"showLastUpdated"`
	LastUpdatedText       string         `yaml:"lastUpdatedText,omitempty" json:"lastUpdatedText,omitempty"`
	NavItems              []NavItem      `yaml:"navItems" json:"navItems"`
	Sidebar               []SidebarEntry `yaml:"sidebar" json:"sidebar"`
	Plugins               []string       `yaml:"plugins" json:"plugins"`
}

// NavItem is a link in the top navigation bar, or a dropdown group when Items
// is set (groups carry no Link).
type NavItem struct {
	Text  string    `yaml:"text" json:"text"`
	Link  string    `yaml:"link,omitempty" json:"link,omitempty"`
	Items []NavItem `yaml:"items,omitempty" json:"items,omitempty"`
}

func cloneNav(items []NavItem) []NavItem {
	if items == nil {
		return nil
	}
	out := make([]NavItem, len(items))
	for i, it := range items {
		it.Items = cloneNav(it.Items)
		out[i] = it
	}
	return out
}

// SidebarEntry is a link in the side navigation. Entries are displayed in declared order.
type SidebarEntry struct {
	Title string `yaml:"title" json:"title"`
	Path  string `yaml:"path" json:"path"`
}

// BasePath returns the URL prefix the site is served under.
func (c *SiteConfig) BasePath() string { return c.basePath }

// Locales returns the configured locales in declaration order.
func (c *SiteConfig) Locales() []Locale { return slices.Clone(c.locales) }

// Locale looks up a locale by its path prefix.
func (c *SiteConfig) Locale(prefix string) (LocaleInfo, bool) {
	return LocaleMap(c.locales).Get(prefix)
}

// Root returns the root ("/") locale, which Resolve guarantees is present.
func (c *SiteConfig) Root() LocaleInfo {
	info, _ := c.Locale(RootLocale)
	return info
}

// HeadTags returns the head tags in declaration order.
func (c *SiteConfig) HeadTags() []HeadTag {
	out := make([]HeadTag, len(c.headTags))
	for i, t := range c.headTags {
		out[i] = t.clone()
	}
	return out
}

// Theme returns a copy of the theme options.
func (c *SiteConfig) Theme() ThemeConfig { return c.theme.clone() }

func (t HeadTag) clone() HeadTag {
	t.Attributes = maps.Clone(t.Attributes)
	return t
}

func (t ThemeConfig) clone() ThemeConfig {
	t.NavItems = cloneNav(t.NavItems)
	t.Sidebar = slices.Clone(t.Sidebar)
	t.Plugins = slices.Clone(t.Plugins)
	return t
}

// Document is the serializable view of a SiteConfig, used for display and export.
type Document struct {
	BasePath string      `yaml:"basePath" json:"basePath"`
	Locales  LocaleMap   `yaml:"locales" json:"locales"`
	HeadTags []HeadTag   `yaml:"headTags" json:"headTags"`
	Theme    ThemeConfig `yaml:"theme" json:"theme"`
}

// Document returns a detached, serializable copy of the configuration.
func (c *SiteConfig) Document() Document {
	return Document{
		BasePath: c.basePath,
		Locales:  LocaleMap(c.Locales()),
		HeadTags: c.HeadTags(),
		Theme:    c.Theme(),
	}
}
