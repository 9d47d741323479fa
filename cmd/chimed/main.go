package main

import (
	"log"
	"os"

	"github.com/chimed/chimed/cmd"
)

func main() {
	args := []string{os.Args[0], "daemon"}
	args = append(args, os.Args[1:]...)
	if err := cmd.Execute(args); err != nil {
		log.Fatal(err)
	}
}
