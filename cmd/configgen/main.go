package main

import (
	"flag"
	"log"

	"github.com/danmuck/meshcam/internal/config"
)

func main() {
	output := flag.String("output", "meshcam.toml", "output path for the config template")
	validate := flag.Bool("validate", false, "validate an existing config file instead")
	input := flag.String("input", "meshcam.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite an existing config file")
	flag.Parse()

	if *validate {
		if _, err := config.LoadSessionConfig(*input); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated session config at %s", *input)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote session config template to %s", *output)
}
