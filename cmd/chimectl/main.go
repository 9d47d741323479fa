package main

import (
	"log"
	"os"

	"github.com/chimed/chimed/cmd"
)

func main() {
	if err := cmd.Execute(os.Args); err != nil {
		log.Fatal(err)
	}
}
