package intexpr_test

import (
	"fmt"

	"github.com/zephyrtronium/intexpr"
)

func ExampleEvaluator_Evaluate() {
	ev := intexpr.New()
	ev.Bind("a", 3).Bind("b", 2)
	fmt.Println(ev.Evaluate("(a+b)*4"))
	fmt.Println(ev.Evaluate("10-2-3"))
	_, err := ev.Evaluate("7/0")
	fmt.Println(err)
	_, err = ev.Evaluate("a+c")
	fmt.Println(err)

	// Output:
	// 20 <nil>
	// 5 <nil>
	// 2: division by zero in 7 / 0
	// 3: undefined variable: "c"
}
