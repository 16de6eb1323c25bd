// Command fileperm-lint reports hardcoded file permissions.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/lucas-albers-lz4/imgtype/tools/lint/fileperm"
)

func main() {
	singlechecker.Main(fileperm.Analyzer)
}
