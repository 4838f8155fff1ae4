//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Run groups targets that start the CLI from source.
type Run mg.Namespace

// Tree prints the citation tree for a topic, e.g. mage run:tree "graph neural networks".
func (Run) Tree(query string) error {
	return sh.RunV("go", "run", cmdPkg, "tree", "--query", query)
}

// Serve starts the browser front end on the configured address.
func (Run) Serve() error {
	return sh.RunV("go", "run", cmdPkg, "serve")
}
