// Command configplanner validates outline sets and resolves build-option
// plans against them (spec.md §2).
package main

import "configplanner/internal/cli"

func main() {
	cli.Execute()
}
