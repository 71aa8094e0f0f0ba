package commands

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsite/internal/foundation/errors"
)

// ShowCmd implements the 'show' command.
type ShowCmd struct {
	Format string `short:"f" help:"Output format (yaml|json)" enum:"yaml,json" default:"yaml"`
}

func (s *ShowCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.Resolve()
	if err != nil {
		return err
	}
	doc := cfg.Document()

	if s.Format == "json" {
		enc := json.NewEncoder(g.out())
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return errors.WrapError(err, errors.CategoryInternal, "failed to encode configuration as JSON").Build()
		}
		return nil
	}

	enc := yaml.NewEncoder(g.out())
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to encode configuration as YAML").Build()
	}
	return enc.Close()
}
