// Package fileperm provides a linter that reports hardcoded file permission
// literals where a pkg/fileutil constant exists.
package fileperm

import (
	"go/ast"
	"go/token"
	"strconv"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports permission literals passed to file-creating calls.
var Analyzer = &analysis.Analyzer{
	Name: "fileperm",
	Doc:  "checks for hardcoded file permission literals instead of using fileutil constants",
	Run:  run,
}

// permConstants maps a permission value to the constant that should be used.
var permConstants = map[int64]string{
	0o600: "fileutil.ReadWriteUserPermission",
	0o644: "fileutil.ReadWriteUserReadOthers",
	0o755: "fileutil.ReadWriteExecuteUserReadExecuteOthers",
}

// permCalls are the method or function names whose last argument is a mode.
// The position differs between os.WriteFile and afero.WriteFile, so only the
// trailing argument is inspected.
var permCalls = map[string]bool{
	"WriteFile": true,
	"MkdirAll":  true,
	"Mkdir":     true,
	"OpenFile":  true,
	"Chmod":     true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			call, ok := n.(*ast.CallExpr)
			if !ok || len(call.Args) == 0 {
				return true
			}
			if name := calleeName(call); !permCalls[name] {
				return true
			}
			lit, ok := call.Args[len(call.Args)-1].(*ast.BasicLit)
			if !ok || lit.Kind != token.INT {
				return true
			}
			value, err := strconv.ParseInt(lit.Value, 0, 64)
			if err != nil {
				return true
			}
			if constant, known := permConstants[value]; known {
				pass.Reportf(lit.Pos(), "use %s instead of hardcoded permission %s", constant, lit.Value)
			}
			return true
		})
	}
	return nil, nil
}

// calleeName returns the called function or method name, or "".
func calleeName(call *ast.CallExpr) string {
	switch fun := call.Fun.(type) {
	case *ast.SelectorExpr:
		return fun.Sel.Name
	case *ast.Ident:
		return fun.Name
	}
	return ""
}
