// ABOUTME: Entry point for the itinerary CLI
// ABOUTME: Runs the root command and releases storage on every exit path

package main

import "os"

func main() {
	err := rootCmd.Execute()
	closeStorage()
	if err != nil {
		os.Exit(1)
	}
}
