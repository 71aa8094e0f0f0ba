package config

import (
	stderrors "errors"
	"io/fs"
	"os"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// exampleConfig is written by Init. The root locale omits its description so
// it is taken from package.json.
const exampleConfig = `# docsite configuration
basePath: /documents/

locales:
  /:
    languageCode: ko-KR
    title: Documents

headTags:
  - tagName: meta
    attributes: {name: theme-color, content: '#3eaf7c'}
  - tagName: meta
    attributes: {name: apple-mobile-web-app-capable, content: 'yes'}
  - tagName: meta
    attributes: {name: apple-mobile-web-app-status-bar-style, content: black}

theme:
  repoUrl: ''
  editLinksEnabled: false
  docsDir: ''
  editLinkText: ''
  showActiveHeaderLinks: false
  showLastUpdated: false
  navItems: []
  sidebar:
    - title: 브라우저는 어떻게 동작하는가?
      path: /how-browsers-work/
    - title: 최신 브라우저의 내부 살펴보기
      path: /inside-look-at-modern-web-browser/
  plugins:
    - '@vuepress/plugin-back-to-top'
    - '@vuepress/plugin-medium-zoom'
`

// Init writes an example configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.ConfigError("configuration file already exists: " + path + " (use --force to overwrite)").
			WithContext("path", path).
			Build()
	} else if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to inspect configuration file "+path).
			WithContext("path", path).
			Build()
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to write configuration file "+path).
			WithContext("path", path).
			Build()
	}
	return nil
}
