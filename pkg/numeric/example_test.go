package numeric_test

import (
	"fmt"

	"github.com/mohamedkhairy/ta-engine/pkg/numeric"
)

func ExampleQuantize() {
	price, _ := numeric.Quantize(101.13, 0.25, numeric.HalfEven)
	fmt.Println(price)
	// Output: 101.25
}

func ExampleSafeDiv() {
	fmt.Println(numeric.SafeDiv(1, 4))
	fmt.Println(numeric.IsSentinel(numeric.SafeDiv(1, 0)))
	// Output:
	// 0.25
	// true
}
