package main

import (
	"log"

	"github.com/kdiomande/maillots/internal/server"
)

func main() {
	if err := server.Start(); err != nil {
		log.Fatal(err)
	}
}
