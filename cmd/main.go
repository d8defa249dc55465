package main

import "os"

func main() {
	// Execute prints the failing command's error itself; just carry the
	// exit status.
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
