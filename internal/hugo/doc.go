// Package hugo exports a resolved site configuration as a Hugo site config.
//
// The mapping is one-way:
//   - basePath becomes baseURL (optionally prefixed with the public site URL)
//   - locales become languages, the root locale being the default content language
//   - nav items and sidebar entries become the "main" and "sidebar" menus,
//     weighted in declaration order
//   - theme switches, head tags and plugins are carried under params for layouts
//
// Rendering is left to Hugo; this package only writes hugo.yaml.
package hugo
