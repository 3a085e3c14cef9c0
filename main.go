// Command tada manages todo.txt files.
package main

import "github.com/twiced-technology-gmbh/tada/cmd"

func main() {
	cmd.Execute()
}
