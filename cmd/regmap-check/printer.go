package main

import (
	"fmt"
	"io"

	"regmap-generator/internal/diagnostic"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
)

type printer struct {
	w     io.Writer
	color bool
}

func (p printer) paint(color, s string) string {
	if !p.color {
		return s
	}

	return color + s + ansiReset
}

// report prints one line per file followed by its findings:
//
//	ok   regs.yaml: 4 registers, data width 32
//	FAIL bad.yaml
//	  error: [DATA_W]: [complementary_orphan] ...
func (p printer) report(res result) {
	if res.diags.HasErrors() {
		fmt.Fprintf(p.w, "%s %s\n", p.paint(ansiRed, "FAIL"), res.path)
	} else {
		summary := ""
		for _, d := range res.diags.Infos {
			summary = ": " + d.Message
		}

		fmt.Fprintf(p.w, "%s   %s%s\n", p.paint(ansiGreen, "ok"), res.path, summary)
	}

	p.list(ansiRed, res.diags.Errors)
	p.list(ansiYellow, res.diags.Warnings)
}

func (p printer) list(color string, diags []diagnostic.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(p.w, "  %s: %s\n", p.paint(color, d.Severity.String()), d)
	}
}
