// framectl inspects, encodes and decodes tagframe frames.
//
// Usage:
//
//	framectl inspect [file]
//	framectl encode [--format f] [--compression c] [--level n] [file]
//	framectl decode [file]
//	framectl best [file]
//
// Input is read from file, or stdin when file is omitted or "-". encode and
// best read JSON with optional comments and trailing commas; extended values
// are written with "__ext__" marker maps. decode prints JSON.
//
// Defaults come from --config, or the file named by TAGFRAME_CONFIG.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
