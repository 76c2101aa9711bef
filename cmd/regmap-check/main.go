// Package main provides the CLI entrypoint for regmap-check.
//
// regmap-check loads register map files, builds them through the
// validated model and reports every problem found:
//
//	regmap-check [-config regs.yaml] [-dump] [-dot DIR] [-export DIR] map.yaml...
//
// Files are checked concurrently and reported in argument order. The exit
// status is 1 when any file fails, 2 on usage errors.
package main

import (
	"context"
	"os"
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
