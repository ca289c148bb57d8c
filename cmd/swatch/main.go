// Command swatch validates reader preferences declared in site content and
// renders the pages that pass.
package main

import "github.com/mesh-intelligence/swatch/internal/cli"

func main() {
	cli.Execute()
}
