// Command glprobe packs PNG images into a glstore texture atlas and writes
// the atlas back out, printing the texture usage of the run.
//
// Usage:
//
//	glprobe [-soft] [-config gl.toml] [-output atlas.png] image.png...
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/glstore"
	"github.com/gogpu/glstore/image"
	"github.com/gogpu/glstore/internal/softgl"
)

func main() {
	var (
		soft    = flag.Bool("soft", false, "use the software device instead of a GL window")
		config  = flag.String("config", "", "TOML file describing the GL context")
		output  = flag.String("output", "atlas.png", "output file")
		verbose = flag.Bool("v", false, "log debug output")
	)
	flag.Parse()

	if *verbose {
		glstore.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	var opts []glstore.Option
	if *config != "" {
		cfg, err := glstore.LoadConfig(*config)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		opts = append(opts, glstore.WithConfig(cfg))
	}

	var (
		st      *glstore.Storage
		cleanup func()
		err     error
	)
	if *soft {
		st, cleanup, err = openSoftware(opts)
	} else {
		st, cleanup, err = openHardware(opts)
	}
	if err != nil {
		log.Fatalf("Failed to create storage: %v", err)
	}
	defer cleanup()

	if err := run(st, flag.Args(), *output); err != nil {
		log.Fatal(err)
	}
	if err := st.UsageReport(os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func openSoftware(opts []glstore.Option) (*glstore.Storage, func(), error) {
	dev := softgl.NewDevice()
	st, err := glstore.New(dev, softgl.NewEffects(dev), softgl.NewSDFProgram(dev), opts...)
	if err != nil {
		return nil, nil, err
	}
	return st, st.Close, nil
}

func run(st *glstore.Storage, inputs []string, output string) error {
	for _, path := range inputs {
		img, err := image.LoadPNG(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		h := st.AllocateTexture()
		if err := st.Initialize2D(h, img); err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}
		st.SetTexturePath(h, path)
		st.AtlasAdd(h)
	}
	if err := st.UpdateTextureAtlas(); err != nil {
		return err
	}

	w, h := st.AtlasSize()
	atlas := st.InitializeExternal(glstore.Kind2D, image.FormatRGBA8, st.AtlasTexture(), w, h, 1, 1, glstore.Layered2DArray)
	defer st.FreeTexture(atlas)

	img, err := st.Texture2DGet(atlas)
	if err != nil {
		return fmt.Errorf("read atlas: %w", err)
	}
	if err := img.SavePNG(output); err != nil {
		return fmt.Errorf("save atlas: %w", err)
	}
	log.Printf("Atlas of %d images saved to %s (%dx%d)\n", len(inputs), output, w, h)
	return nil
}
