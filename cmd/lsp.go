package main

import "github.com/neosfusion/fusionls/cmd/lsp"

type LspCmd struct {
	Stdio   bool   `help:"(internal) LSP clients pass this flag. Safe to ignore." name:"stdio"`
	LogFile string `help:"Also write logs to this file." name:"log-file" type:"path"`
}

func (l *LspCmd) Run() error {
	return lsp.RunLSP(l.LogFile)
}
