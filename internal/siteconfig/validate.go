package siteconfig

import (
	"net/url"
	"strings"

	"golang.org/x/net/html/atom"
	"golang.org/x/text/language"
)

// headElements are the elements a renderer may place inside <head>.
var headElements = map[atom.Atom]bool{
	atom.Base:     true,
	atom.Link:     true,
	atom.Meta:     true,
	atom.Noscript: true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Title:    true,
}

func checkBasePath(field, base string) error {
	if base == "" {
		return invalid(field, "is required")
	}
	if !strings.HasPrefix(base, "/") || !strings.HasSuffix(base, "/") {
		return invalid(field, "%q must start and end with '/'", base)
	}
	if strings.ContainsAny(base, "?# \t\r\n") {
		return invalid(field, "%q must be a plain URL path", base)
	}
	return nil
}

func checkAbsolute(field, p string) error {
	if !strings.HasPrefix(p, "/") {
		return invalid(field, "%q must start with '/'", p)
	}
	return nil
}

// checkLanguage accepts an empty code (the renderer's default applies) or a
// well-formed BCP 47 tag.
func checkLanguage(field, code string) error {
	if code == "" {
		return nil
	}
	if _, err := language.Parse(code); err != nil {
		return invalid(field, "%q is not a valid BCP 47 language tag", code)
	}
	return nil
}

// checkTagName returns the canonical lower-case element name.
func checkTagName(field, name string) (string, error) {
	if name == "" {
		return "", invalid(field, "tag name is required")
	}
	a := atom.Lookup([]byte(strings.ToLower(name)))
	if a == 0 {
		return "", invalid(field, "%q is not an HTML element", name)
	}
	if !headElements[a] {
		return "", invalid(field, "<%s> is not allowed in the document head", a)
	}
	return a.String(), nil
}

// checkLink accepts site-absolute paths and external http(s) or mailto URLs.
func checkLink(field, link string) error {
	if link == "" {
		return invalid(field, "must not be empty")
	}
	if strings.HasPrefix(link, "/") {
		return nil
	}
	u, err := url.Parse(link)
	if err != nil {
		return invalid(field, "%q is not a valid URL", link)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host != "" {
			return nil
		}
	case "mailto":
		if u.Opaque != "" {
			return nil
		}
	}
	return invalid(field, "%q must start with '/' or be an absolute http(s) URL", link)
}
