package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/render"
)

// errQuit ends the view loops without reporting an error.
var errQuit = errors.New("quit")

func newViewCmd() *cobra.Command {
	var (
		flags sceneFlags
		fps   int
	)

	cmd := &cobra.Command{
		Use:   "view <scene.yaml|scene.toml>",
		Short: "Preview a scene in the terminal",
		Long: `Preview a scene in the terminal with an orbiting camera.

Controls:
  Arrows / WASD  Orbit around the scene
  + / -          Zoom in and out
  X              Toggle wireframe overlay
  R              Reset the view
  Esc / Q        Quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd, args[0])
			if err != nil {
				return err
			}
			cam, err := cfg.BuildCamera()
			if err != nil {
				return err
			}
			objects, err := cfg.BuildObjects()
			if err != nil {
				return err
			}

			bounds := math3d.EmptyAABB()
			drawables := make([]render.Object, len(objects))
			for i, o := range objects {
				drawables[i] = o
				bounds = bounds.Union(o.Bounds())
			}

			v := &viewer{
				camera:     cam,
				objects:    drawables,
				background: cfg.Image.Background.RGB(),
				orbit:      orbitFor(fps, bounds),
				fps:        fps,
			}
			return v.run(cmd.Context())
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&fps, "fps", 30, "Target frames per second")
	return cmd
}

// viewer drives the terminal preview: one goroutine reads input, another
// renders frames.
type viewer struct {
	camera     *render.Camera
	objects    []render.Object
	background render.Color
	orbit      *orbit
	fps        int

	mu        sync.Mutex
	cols      int
	rows      int
	resized   bool
	wireframe bool
}

func (v *viewer) run(ctx context.Context) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)
	v.cols, v.rows = cols, rows

	defer func() {
		term.ExitAltScreen()
		term.ShowCursor()
		if err := term.Shutdown(context.Background()); err != nil {
			logging.Logger().Warn("terminal shutdown", "err", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return v.handleInput(ctx, term) })
	g.Go(func() error { return v.drawFrames(ctx, term) })

	if err := g.Wait(); err != nil && !errors.Is(err, errQuit) && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// handleInput applies key presses and resizes until quit or cancellation.
func (v *viewer) handleInput(ctx context.Context, term *uv.Terminal) error {
	events := term.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return errQuit
			}
			if err := v.handleEvent(ev); err != nil {
				return err
			}
		}
	}
}

func (v *viewer) handleEvent(ev uv.Event) error {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		v.mu.Lock()
		v.cols, v.rows, v.resized = ev.Width, ev.Height, true
		v.mu.Unlock()

	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("escape", "q", "ctrl+c"):
			return errQuit
		case ev.MatchString("left", "a"):
			v.orbit.Turn(-1, 0)
		case ev.MatchString("right", "d"):
			v.orbit.Turn(1, 0)
		case ev.MatchString("up", "w"):
			v.orbit.Turn(0, 1)
		case ev.MatchString("down", "s"):
			v.orbit.Turn(0, -1)
		case ev.MatchString("+", "="):
			v.orbit.Zoom(1)
		case ev.MatchString("-", "_"):
			v.orbit.Zoom(-1)
		case ev.MatchString("r"):
			v.orbit.Reset()
		case ev.MatchString("x"):
			v.mu.Lock()
			v.wireframe = !v.wireframe
			v.mu.Unlock()
		}
	}
	return nil
}

// drawFrames renders at the target frame rate until cancelled.
func (v *viewer) drawFrames(ctx context.Context, term *uv.Terminal) error {
	ticker := time.NewTicker(time.Second / time.Duration(max(v.fps, 1)))
	defer ticker.Stop()

	var (
		fb *render.Framebuffer
		r  *render.Rasterizer
	)
	cam := *v.camera
	baseAperture := v.camera.FilmApertureWidth

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		v.mu.Lock()
		cols, rows, resized, wire := v.cols, v.rows, v.resized, v.wireframe
		v.resized = false
		v.mu.Unlock()

		if resized {
			term.Erase()
			term.Resize(cols, rows)
		}
		width, height := render.TerminalFramebufferSize(cols, rows)
		if width <= 0 || height <= 0 {
			continue
		}
		if fb == nil || fb.Width != width || fb.Height != height {
			fb = render.NewFramebuffer(width, height)
			// Keep the film gate's aspect equal to the frame buffer's so
			// pixels stay square.
			cam.SetFilmAperture(baseAperture, baseAperture*float64(height)/float64(width))
			r = render.NewRasterizer(&cam, fb)
		}

		v.orbit.Step()
		v.orbit.Apply(&cam)

		fb.Clear(v.background)
		r.Reset()
		r.DrawScene(v.objects...)
		if wire {
			w := render.NewWireframe(&cam, fb)
			for _, o := range v.objects {
				w.DrawObject(o, render.ColorWhite)
			}
		}

		fb.Draw(term, uv.Rect(0, 0, cols, rows))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}
