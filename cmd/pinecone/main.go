// Package main implements the pinecone CLI, a thin shell over the client
// library for scripting index and vector operations.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(newApp(os.Stdout)).Execute(); err != nil {
		os.Exit(1)
	}
}
