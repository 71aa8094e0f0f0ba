package commands

import (
	"fmt"
)

// ValidateCmd implements the 'validate' command.
type ValidateCmd struct{}

func (v *ValidateCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.Resolve()
	if err != nil {
		return err
	}
	theme := cfg.Theme()
	_, err = fmt.Fprintf(g.out(), "%s: ok (base %s, %d locale(s), %d head tag(s), %d sidebar entries, %d plugin(s))\n",
		root.Config, cfg.BasePath(), len(cfg.Locales()), len(cfg.HeadTags()), len(theme.Sidebar), len(theme.Plugins))
	return err
}
