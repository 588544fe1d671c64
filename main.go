// Public domain.

package main

import "github.com/soniakeys/dstar/internal/dsprog"

func main() {
	dsprog.Main()
}
