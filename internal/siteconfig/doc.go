// Package siteconfig resolves the declarative configuration of a static
// documentation site into a validated, immutable SiteConfig.
//
// The raw configuration arrives already parsed (a yaml.Node or nested maps)
// and is checked in one pass: base path, locales, head tags, theme options,
// sidebar and plugins. Any violation aborts resolution with a classified
// validation error naming the offending field; a locale without a description
// whose fallback cannot be obtained fails with a missing-dependency error.
// No partial SiteConfig is ever returned.
//
// Both the documented key names (basePath, headTags, theme, ...) and their
// VuePress spellings (base, head, themeConfig, ...) are accepted.
package siteconfig
