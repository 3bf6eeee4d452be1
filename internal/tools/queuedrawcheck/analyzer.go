// Package queuedrawcheck flags UI update callbacks that queue another UI
// update. tview runs queued callbacks on the event loop, and queuing from
// inside one can block the loop on its own channel.
package queuedrawcheck

import (
	"go/ast"

	"golang.org/x/tools/go/analysis"
)

// Analyzer reports QueueUpdate and QueueUpdateDraw calls made directly
// inside a callback passed to either of them.
var Analyzer = &analysis.Analyzer{
	Name: "queuedrawcheck",
	Doc:  "reports QueueUpdate/QueueUpdateDraw calls inside queued UI callbacks",
	Run:  run,
}

var queueMethods = map[string]bool{
	"QueueUpdate":     true,
	"QueueUpdateDraw": true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	for _, file := range pass.Files {
		ast.Inspect(file, func(n ast.Node) bool {
			outer, ok := n.(*ast.CallExpr)
			if !ok || queueMethod(outer) == "" || len(outer.Args) == 0 {
				return true
			}

			fnLit, ok := outer.Args[0].(*ast.FuncLit)
			if !ok {
				return true
			}

			ast.Inspect(fnLit.Body, func(inner ast.Node) bool {
				// Nested function literals run elsewhere, e.g. in a goroutine,
				// and are checked at their own call sites.
				if _, ok := inner.(*ast.FuncLit); ok {
					return false
				}

				call, ok := inner.(*ast.CallExpr)
				if !ok {
					return true
				}

				if name := queueMethod(call); name != "" {
					pass.Reportf(call.Pos(), "nested %s inside %s callback can deadlock tview", name, queueMethod(outer))
					return false
				}

				return true
			})

			return true
		})
	}

	return nil, nil
}

// queueMethod returns the queue method called by call, or "".
func queueMethod(call *ast.CallExpr) string {
	selector, ok := call.Fun.(*ast.SelectorExpr)
	if !ok || selector.Sel == nil || !queueMethods[selector.Sel.Name] {
		return ""
	}

	return selector.Sel.Name
}
