/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package multi

import (
	"fmt"
)

func Example() {
	err := New(fmt.Errorf("orderer0 close failed"), nil, fmt.Errorf("orderer1 close failed"))

	// We can extract multi errors from a standard error
	errs, ok := err.(Errors)
	fmt.Println(ok)

	// And handle each error individually
	for _, e := range errs {
		fmt.Println(e)
	}

	// Output:
	// true
	// orderer0 close failed
	// orderer1 close failed
}
