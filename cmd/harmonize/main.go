// harmonize loads, joins and summarizes the canonical tables of a source
// described in YAML.
package main

import (
	_ "github.com/carbocation/harmonize/compileinfoprint"
)

func main() {
	Execute()
}
