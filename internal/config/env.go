package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/logfields"
)

// envFileNames are loaded in order; a variable already set (by the process
// environment or an earlier file) is never overridden.
var envFileNames = []string{".env", ".env.local"}

// loadEnvFiles loads dotenv files located next to the configuration file.
func loadEnvFiles(configDir string) error {
	for _, name := range envFileNames {
		path := filepath.Join(configDir, name)
		if _, err := os.Stat(path); stderrors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
		slog.Debug("Loaded environment variables", logfields.Path(path))
	}
	return nil
}

// expandEnv replaces ${NAME} in every scalar value below n. Keys, comments and
// bare $NAME text are left alone. A plain scalar is re-typed after expansion so
// `editLinks: ${EDIT_LINKS}` still yields a boolean; quoted scalars stay strings.
func expandEnv(n *yaml.Node) error {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.ScalarNode:
		value, changed, err := expandBraced(n.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		if changed {
			n.Value = value
			if n.Style == 0 {
				n.Tag = ""
			}
		}
	case yaml.MappingNode:
		for i := 1; i < len(n.Content); i += 2 {
			if err := expandEnv(n.Content[i]); err != nil {
				return err
			}
		}
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			if err := expandEnv(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// expandBraced substitutes ${NAME} references. Anything that is not a complete
// reference to a valid variable name is kept verbatim.
func expandBraced(s string) (string, bool, error) {
	if !strings.Contains(s, "${") {
		return s, false, nil
	}
	var b strings.Builder
	changed := false
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			break
		}
		end := strings.IndexByte(s[start+2:], '}')
		if end < 0 {
			break
		}
		name := s[start+2 : start+2+end]
		if !isEnvName(name) {
			b.WriteString(s[:start+2])
			s = s[start+2:]
			continue
		}
		value, ok := os.LookupEnv(name)
		if !ok {
			return "", false, fmt.Errorf("environment variable %s is not set", name)
		}
		b.WriteString(s[:start])
		b.WriteString(value)
		s = s[start+3+end:]
		changed = true
	}
	b.WriteString(s)
	return b.String(), changed, nil
}

func isEnvName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z'):
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
