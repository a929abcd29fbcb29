// Command ember is a bytecode compiler and virtual machine for the ember
// scripting language.
package main

import (
	"os"

	"github.com/mna/mainer"

	"github.com/mna/ember/internal/maincmd"
)

var (
	// placeholder values, replaced on build
	version   = "{v}"
	buildDate = "{d}"
)

func main() {
	c := maincmd.Cmd{BuildVersion: version, BuildDate: buildDate}
	os.Exit(int(c.Main(os.Args, mainer.CurrentStdio())))
}
