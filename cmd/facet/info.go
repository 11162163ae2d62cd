package main

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/taigrr/facet/pkg/config"
	"github.com/taigrr/facet/pkg/math3d"
	"github.com/taigrr/facet/pkg/scene"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#04B575"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444444")).Padding(0, 1)
)

func newInfoCmd() *cobra.Command {
	var flags sceneFlags

	cmd := &cobra.Command{
		Use:   "info <scene.yaml|scene.toml>",
		Short: "Summarise a scene's camera and objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.load(cmd, args[0])
			if err != nil {
				return err
			}
			objects, err := cfg.BuildObjects()
			if err != nil {
				return err
			}
			return writeInfo(cmd.OutOrStdout(), args[0], cfg, objects)
		},
	}
	flags.register(cmd)
	return cmd
}

// writeInfo prints the image, camera and per-object counts and bounds.
func writeInfo(w io.Writer, path string, cfg *config.Config, objects []*scene.Object) error {
	var sb strings.Builder
	line := func(label, value string) {
		fmt.Fprintf(&sb, "%s %s\n", labelStyle.Render(fmt.Sprintf("%-10s", label)), value)
	}

	sb.WriteString(titleStyle.Render(path) + "\n")
	line("image", fmt.Sprintf("%dx%d on %v", cfg.Image.Width, cfg.Image.Height, cfg.Image.Background))
	cam, err := cfg.BuildCamera()
	if err != nil {
		return err
	}
	toWorld := cam.CameraToWorld()
	eye := toWorld.Translation()
	c := cfg.Camera
	line("camera", fmt.Sprintf("at %v rotated %v", eye, vec(c.Rotation)))
	line("facing", fmt.Sprint(toWorld.MulPoint(math3d.V3(0, 0, -1)).Sub(eye)))
	line("lens", fmt.Sprintf("%gmm on %gx%gmm film, clip %g-%g", c.FocalLength, c.FilmAperture[0], c.FilmAperture[1], c.Near, c.Far))

	totalV, totalT := 0, 0
	bounds := math3d.EmptyAABB()
	for _, o := range objects {
		b := o.Bounds()
		sb.WriteString("\n" + nameStyle.Render(o.Name()) + "\n")
		line("vertices", fmt.Sprint(o.VertexCount()))
		line("triangles", fmt.Sprint(o.TriangleCount()))
		line("bounds", boundsString(b))
		totalV += o.VertexCount()
		totalT += o.TriangleCount()
		bounds = bounds.Union(b)
	}

	sb.WriteString("\n")
	line("objects", fmt.Sprint(len(objects)))
	line("vertices", fmt.Sprint(totalV))
	line("triangles", fmt.Sprint(totalT))
	line("bounds", boundsString(bounds))

	_, err = fmt.Fprintln(w, boxStyle.Render(strings.TrimRight(sb.String(), "\n")))
	return err
}

func vec(v [3]float64) math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

func boundsString(b math3d.AABB) string {
	if b.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("%v to %v", b.Min, b.Max)
}
