// Command queuedrawcheck runs the nested UI update analyzer.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/truckline/dispatchdesk/internal/tools/queuedrawcheck"
)

func main() {
	singlechecker.Main(queuedrawcheck.Analyzer)
}
