/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Command memstore loads model definitions and seed records into a store and
// runs queries against them.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
