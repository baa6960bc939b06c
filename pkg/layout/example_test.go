package layout_test

import (
	"fmt"

	"github.com/matzehuels/figpanel/pkg/layout"
)

func ExampleParse() {
	fmt.Println(layout.Parse("2x2", 3))
	fmt.Println(layout.Parse("AB-C", 3))
	fmt.Println(layout.Parse("3", 5))
	// Output:
	// [[0 1] [2]]
	// [[0 1] [2]]
	// [[0 1 2] [3 4]]
}
