package main

import (
	"os"

	"github.com/lucas-albers-lz4/imgtype/pkg/exitcodes"
	log "github.com/lucas-albers-lz4/imgtype/pkg/log"
)

func main() {
	if err := Execute(); err != nil {
		code := exitcodes.ExitGeneralRuntimeError
		if c, ok := exitcodes.IsExitCodeError(err); ok {
			code = c
		}
		log.Error("Command failed", "error", err, "exitCode", code)
		os.Exit(code)
	}
}
