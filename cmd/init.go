package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/neosfusion/fusionls/frontend"
	"github.com/neosfusion/fusionls/std"
)

type InitCmd struct {
	Path  string `arg:"" optional:"" help:"Project directory." default:"." type:"path"`
	Force bool   `help:"Overwrite an existing fusion.toml." short:"f"`
}

func (i *InitCmd) Run() error {
	if err := os.MkdirAll(i.Path, 0755); err != nil {
		return err
	}
	target := filepath.Join(i.Path, frontend.ConfigFileName)
	if _, err := os.Stat(target); err == nil && !i.Force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", target)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.WriteFile(target, []byte(std.FusionToml), 0644); err != nil {
		return err
	}
	fmt.Println("wrote", target)
	return nil
}
