// The main package for the imdbscraper executable.
package main

import (
	"github.com/filberthamijoyo/CinematicAI/cmd"
)

// main is the entry point of the application.
// It defers all execution to the Cobra CLI library.
func main() {
	cmd.Execute()
}
