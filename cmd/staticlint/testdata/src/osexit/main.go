package main

import (
	"fmt"
	"os"
)

func exit(code int) {
	os.Exit(code)
}

func main() {
	if len(os.Args) > 2 {
		exit(2)
	}
	if len(os.Args) > 1 {
		os.Exit(1) // want "osexitcheck os.Exit cannot be called in main function of main package"
	}
	defer fmt.Println("done")
	func() {
		os.Exit(0) // want "osexitcheck os.Exit cannot be called in main function of main package"
	}()
}
