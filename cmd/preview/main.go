// Command preview renders a job with the software pipeline and shows it in
// a window. Arrow keys orbit the camera, W/S zoom, F toggles wireframe.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"soft-render/core"
	"soft-render/internal/opengl"
	rio "soft-render/io"
	"soft-render/renderer"
	"soft-render/tga"
)

const (
	orbitSpeed = 1.5 // radians per second
	zoomSpeed  = 2.0 // units per second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "preview: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	jobPath := flag.String("job", "", "Render job file (.json, .yaml or .yml)")
	mesh := flag.String("mesh", "", "Show this mesh instead of the job objects")
	texture := flag.String("texture", "", "Diffuse texture for -mesh")
	size := flag.Int("size", 600, "Window size in pixels")
	verbose := flag.Bool("v", false, "Debug logging")
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
		job.Objects = []rio.ObjectData{obj}
		job.Camera.AutoFrame = true
	}
	job.Width, job.Height = *size, *size

	config := opengl.DefaultWindowConfig()
	config.Width, config.Height = *size, *size
	window, err := opengl.NewWindow(config)
	if err != nil {
		return err
	}
	defer window.Destroy()

	presenter, err := opengl.NewPresenter()
	if err != nil {
		return err
	}
	defer presenter.Destroy()

	re := renderer.NewRenderEngine(job.Width, job.Height, tga.RGB)
	if err := re.BuildScene(job, dir); err != nil {
		return err
	}
	cam := re.Scene.Camera

	dirty := true
	wireKeyDown := false
	last := time.Now()
	for !window.ShouldClose() {
		now := time.Now()
		dt := min(now.Sub(last).Seconds(), 0.05)
		last = now
		window.PollEvents()

		if window.IsKeyPressed(glfw.KeyEscape) {
			window.Handle.SetShouldClose(true)
		}
		var yaw, pitch, zoom float64
		if window.IsKeyPressed(glfw.KeyLeft) {
			yaw -= orbitSpeed * dt
		}
		if window.IsKeyPressed(glfw.KeyRight) {
			yaw += orbitSpeed * dt
		}
		if window.IsKeyPressed(glfw.KeyUp) {
			pitch += orbitSpeed * dt
		}
		if window.IsKeyPressed(glfw.KeyDown) {
			pitch -= orbitSpeed * dt
		}
		if window.IsKeyPressed(glfw.KeyW) {
			zoom -= zoomSpeed * dt
		}
		if window.IsKeyPressed(glfw.KeyS) {
			zoom += zoomSpeed * dt
		}
		if yaw != 0 || pitch != 0 {
			cam.Orbit(yaw, pitch)
			dirty = true
		}
		if zoom != 0 {
			cam.Zoom(zoom)
			dirty = true
		}
		if down := window.IsKeyPressed(glfw.KeyF); down && !wireKeyDown {
			re.Wireframe = !re.Wireframe
			dirty = true
		}
		wireKeyDown = window.IsKeyPressed(glfw.KeyF)

		fbw, fbh := window.GetFramebufferSize()
		if re.Resize(fbw, fbh) {
			dirty = true
		}

		if dirty {
			start := time.Now()
			if err := re.Render(); err != nil {
				return err
			}
			_, _, stats := re.DrawStats()
			window.SetTitle(fmt.Sprintf("soft-render - %d triangles, %d fragments, %v",
				stats.Drawn, stats.FragmentsWritten, time.Since(start).Round(time.Millisecond)))
			dirty = false
		}

		if err := presenter.Present(re.Target(), fbw, fbh); err != nil {
			return err
		}
		window.SwapBuffers()
	}
	return nil
}
