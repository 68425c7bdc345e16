package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/exprtree/pkg/expr"
	"github.com/matzehuels/exprtree/pkg/render/nodelink"
)

func ExampleToDOT() {
	dot := nodelink.ToDOT(expr.MustCompile("1+2"), nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// n1 -> n0;
	// n1 -> n2;
}
