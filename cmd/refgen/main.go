// Command refgen generates images from a prompt and reference photos using
// Gemini image models.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
