package main

import (
	"log"

	"github.com/PRYANIK26/FullStack-AI-HR/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
