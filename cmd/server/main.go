package main

import (
	"log"

	"github.com/miraedance/atelier/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
