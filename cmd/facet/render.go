package main

import (
	"github.com/spf13/cobra"

	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/config"
	"github.com/taigrr/facet/pkg/imageout"
	"github.com/taigrr/facet/pkg/render"
)

const defaultOutput = "out.ppm"

func newRenderCmd() *cobra.Command {
	var (
		flags     sceneFlags
		wireframe config.Color
	)

	cmd := &cobra.Command{
		Use:   "render <scene.yaml|scene.toml>",
		Short: "Render a scene to an image file",
		Long:  "Render a scene to a PPM, PNG, BMP or TIFF file. The format follows the output file's extension.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd, args[0])
			if err != nil {
				return err
			}
			var overlay *render.Color
			if cmd.Flags().Changed("wireframe") {
				c := wireframe.RGB()
				overlay = &c
			}
			return renderScene(cfg, overlay)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output image path (default from the scene file, else "+defaultOutput+")")
	cmd.Flags().Var(&wireframe, "wireframe", "Draw triangle edges over the image in this colour")
	return cmd
}

// renderScene renders cfg and writes the image. A non-nil overlay draws
// every triangle's edges on top.
func renderScene(cfg *config.Config, overlay *render.Color) error {
	cam, err := cfg.BuildCamera()
	if err != nil {
		return err
	}
	objects, err := cfg.BuildObjects()
	if err != nil {
		return err
	}

	drawables := make([]render.Object, len(objects))
	for i, o := range objects {
		drawables[i] = o
	}

	fb, stats := render.Render(cam, cfg.Image.Width, cfg.Image.Height, cfg.Image.Background.RGB(), drawables...)
	if overlay != nil {
		w := render.NewWireframe(cam, fb)
		for _, o := range drawables {
			w.DrawObject(o, *overlay)
		}
	}

	out := cfg.Output
	if out == "" {
		out = defaultOutput
	}
	if err := imageout.Save(out, fb); err != nil {
		return err
	}

	logging.Logger().Info("image written",
		"path", out,
		"width", fb.Width,
		"height", fb.Height,
		"triangles", stats.Triangles,
		"pixels_written", stats.PixelsWritten,
	)
	return nil
}
