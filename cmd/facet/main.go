// facet - software triangle rasterizer
// Render scene descriptions to image files or preview them in the terminal.
//
// Usage:
//
//	facet render scene.yaml -o out.png
//	facet view scene.yaml
//	facet info scene.yaml
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/taigrr/facet/internal/logging"
	"github.com/taigrr/facet/pkg/config"
)

var version = "dev"

// sceneFlags are the command line overrides shared by every subcommand.
type sceneFlags struct {
	width      int
	height     int
	background config.Color
	output     string
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.width, "width", 0, "Image width in pixels (overrides the scene file)")
	cmd.Flags().IntVar(&f.height, "height", 0, "Image height in pixels (overrides the scene file)")
	cmd.Flags().Var(&f.background, "bg", "Background colour: name, #rrggbb or r,g,b")
}

// load reads the scene file and applies any flags the user set.
func (f *sceneFlags) load(cmd *cobra.Command, path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("width") {
		cfg.Image.Width = f.width
	}
	if cmd.Flags().Changed("height") {
		cfg.Image.Height = f.height
	}
	if cmd.Flags().Changed("bg") {
		cfg.Image.Background = f.background
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = f.output
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "facet",
		Short: "Software triangle rasterizer",
		Long:  "facet projects coloured triangle meshes through a pinhole camera and fills them with a depth-buffered rasterizer.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logging.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log render statistics and loader details")

	root.AddCommand(newRenderCmd(), newViewCmd(), newInfoCmd())
	return root
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := fang.Execute(ctx, newRootCmd(), fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}
