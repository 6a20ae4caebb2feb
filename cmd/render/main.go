// Command render rasterizes a render job into an image file.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"soft-render/core"
	rio "soft-render/io"
	"soft-render/pipeline"
	"soft-render/renderer"
	"soft-render/tga"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	jobPath := flag.String("job", "", "Render job file (.json, .yaml or .yml)")
	output := flag.String("o", "", "Output image (.tga, .png, .bmp, .tif); overrides the job")
	width := flag.Int("w", 0, "Image width; overrides the job")
	height := flag.Int("h", 0, "Image height; overrides the job")
	mesh := flag.String("mesh", "", "Render this mesh (.obj, .gltf, .glb or a primitive) instead of the job objects")
	texture := flag.String("texture", "", "Diffuse texture for -mesh")
	shaderKind := flag.String("shader", "", "Shader for -mesh: flat, texture, gouraud or depth")
	wireframe := flag.Bool("wireframe", false, "Overlay triangle edges")
	writeJob := flag.String("write-job", "", "Write the effective job to this file and exit")
	verbose := flag.Bool("v", false, "Debug logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Render a mesh with the software rasterizer.\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s -mesh head.obj -texture head_diffuse.tga -o head.tga\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -job scene.yaml -o scene.png\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	core.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	job := rio.DefaultJob()
	dir := "."
	if *jobPath != "" {
		var err error
		if job, err = rio.LoadJob(*jobPath); err != nil {
			return err
		}
		dir = filepath.Dir(*jobPath)
	}

	if *mesh != "" {
		obj := rio.DefaultObject(*mesh)
		obj.Texture = *texture
		if *texture != "" {
			obj.Shader = rio.ShaderTexture
		}
		if *shaderKind != "" {
			obj.Shader = *shaderKind
		}
		job.Objects = []rio.ObjectData{obj}
		job.Camera.AutoFrame = true
	}
	outDir := dir
	if *output != "" {
		job.Output = *output
		outDir = "."
	}
	if *width > 0 {
		job.Width = *width
	}
	if *height > 0 {
		job.Height = *height
	}
	if *wireframe {
		job.Wireframe = true
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid job: %w", err)
	}

	if *writeJob != "" {
		return rio.SaveJob(*writeJob, job)
	}

	var bar *progressbar.ProgressBar
	re := renderer.NewRenderEngine(job.Width, job.Height, renderer.Format(job.Channels),
		pipeline.WithProgress(func(done, total int) {
			if bar != nil {
				bar.Add(1)
			}
		}))
	if err := re.BuildScene(job, dir); err != nil {
		return err
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		bar = progressbar.Default(int64(re.TriangleCount()), "rasterizing")
		defer bar.Close()
	}

	if err := re.Render(); err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
	}

	out := job.Output
	if !filepath.IsAbs(out) {
		out = filepath.Join(outDir, out)
	}
	if err := renderer.SaveImage(out, re.Target(), &tga.Options{RLE: job.RLE, TopDown: job.TopDown}); err != nil {
		return err
	}
	objects, culled, stats := re.DrawStats()
	core.Logger().Info("done",
		"output", out,
		"objects", objects,
		"culled_objects", culled,
		"triangles", stats.Submitted,
		"degenerate", stats.Degenerate,
		"backfaces", stats.Culled,
	)
	return nil
}
