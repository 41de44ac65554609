// compileinfoprint is imported by the harmonize binaries for the side effect
// of printing the build provenance to os.Stderr before any output.
package compileinfoprint

import "github.com/carbocation/harmonize/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
