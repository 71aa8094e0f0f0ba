package commands

import (
	"fmt"

	"git.home.luguber.info/inful/docsite/internal/hugo"
)

// ExportCmd implements the 'export' command.
type ExportCmd struct {
	Output  string `short:"o" help:"Directory to write hugo.yaml into" default:"."`
	SiteURL string `name:"site-url" help:"Scheme and host the site is published on (e.g. https://docs.example.com)" env:"DOCSITE_SITE_URL"`
}

func (e *ExportCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.Resolve()
	if err != nil {
		return err
	}
	path, err := hugo.WriteConfig(e.Output, cfg, hugo.Options{SiteURL: e.SiteURL})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(g.out(), "Wrote %s\n", path)
	return err
}
