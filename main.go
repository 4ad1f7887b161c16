package main

import (
	"log"

	"github.com/mikann/photo-gallery/cmd"
	"github.com/mikann/photo-gallery/config"
)

func main() {
	log.Printf("photo gallery %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
