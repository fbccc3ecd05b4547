// Command folio serves a single-page portfolio and replays its scroll
// choreography headlessly.
//
// Usage:
//
//	folio serve
//	folio simulate --scroll 4000
//
// See --help for all available options.
package main

import (
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	Execute()
}
