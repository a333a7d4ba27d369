package cui

import "fmt"

func menu() {
	fmt.Println("1. Add cashback")
	fmt.Printf("Select (1-%d): ", 8)
}
