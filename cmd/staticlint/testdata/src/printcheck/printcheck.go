package printcheck

import (
	"fmt"
	"io"
	"os"
)

func report(w io.Writer, total int) string {
	fmt.Println("total", total)     // want "printcheck fmt.Println writes to stdout; return the value or log it"
	fmt.Printf("total %d\n", total) // want "printcheck fmt.Printf writes to stdout; return the value or log it"
	fmt.Print(total)                // want "printcheck fmt.Print writes to stdout; return the value or log it"
	println("total", total)         // want "printcheck builtin println writes to stderr; use the logger"
	print(total)                    // want "printcheck builtin print writes to stderr; use the logger"
	fmt.Fprintf(w, "total %d\n", total)
	fmt.Fprintln(os.Stderr, total)
	return fmt.Sprintf("%d", total)
}
