package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/jinjor/desktop-synth/src/audio"
	"golang.org/x/sync/errgroup"
)

func main() {
	flag.Parse()
	dir := flag.Arg(0)
	if dir == "" {
		log.Fatal("dir is not passed")
	}
	log.SetFlags(log.Lshortfile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Fatalf("error: %v\n", err)
	}

	names := audio.FactoryPresetNames()
	g, _ := errgroup.WithContext(context.Background())
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			data, err := audio.FactoryPresetJSON(i)
			if err != nil {
				return err
			}
			return audio.SavePreset(dir, name, data)
		})
	}
	g.Go(func() error {
		return audio.SavePresetList(dir, names)
	})
	err := g.Wait()
	if err != nil {
		log.Fatalf("error: %v\n", err)
	}
	log.Printf("Successfully generated %d presets.\n", len(names))
}
