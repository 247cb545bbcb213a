// journeyshot renders frames of the space journey to PNG files without a
// window, for previews and visual regression checks.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"github.com/Faultbox/spacejourney/internal/canvas"
	"github.com/Faultbox/spacejourney/internal/config"
	"github.com/Faultbox/spacejourney/internal/cosmos"
	"github.com/Faultbox/spacejourney/internal/engine/capture"
	"github.com/Faultbox/spacejourney/internal/logger"
	"github.com/Faultbox/spacejourney/internal/quality"
	"github.com/Faultbox/spacejourney/internal/stage"
	"github.com/Faultbox/spacejourney/internal/starfield"
)

// background is the dark page colour the layers are composed over.
var background = gg.RGBA{R: 0.02, G: 0.02, B: 0.06, A: 1}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "render", "r":
		err = cmdRender(args)
	case "stages", "ls":
		err = cmdStages(args)
	case "fallback":
		err = cmdFallback(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`journeyshot - render space journey frames to PNG

Usage:
  journeyshot <command> [options]

Commands:
  render [options] <progress>...   Render one PNG per progress value in [0,1]
  stages                           List the journey stages and their windows
  fallback [options]               Render the static fallback background

Render options:
  -config file    Read size, quality and star settings from a config file
  -o dir          Output directory (default "shots")
  -width/-height  Logical size (default from config)
  -dpr n          Device pixel ratio (default 1)
  -quality q      low, medium or high (default from config, else high)
  -time d         Animation clock, e.g. 2.5s (default 0)
  -stars          Draw the star layer underneath
  -manifest       Write manifest.json describing each frame
  -thumb n        Also write thumbnails n pixels wide
  -v              Debug logging

Examples:
  journeyshot render -o out 0 0.1 0.47 0.9
  journeyshot render -quality low -time 3s -manifest 0.7
  journeyshot fallback -o out`)
}

// shotOptions controls a render run.
type shotOptions struct {
	Dir      string
	Width    float64
	Height   float64
	DPR      float64
	Quality  quality.Level
	Time     time.Duration
	Stars    int
	Seed     uint64
	Manifest bool
	// Thumb, when positive, also writes a copy scaled to this width.
	Thumb int
}

// shot describes one rendered frame.
type shot struct {
	File     string        `json:"file"`
	Thumb    string        `json:"thumb,omitempty"`
	Progress float64       `json:"progress"`
	Quality  quality.Level `json:"quality"`
	TimeMS   int64         `json:"time_ms"`
	Stages   []shotStage   `json:"stages"`
}

type shotStage struct {
	Name     string  `json:"name"`
	Opacity  float64 `json:"opacity"`
	Progress float64 `json:"progress"`
}

// renderFlags registers the options shared by render and fallback.
func renderFlags(fs *flag.FlagSet) (configPath, out, q *string, width, height, dpr *float64, verbose *bool) {
	configPath = fs.String("config", "", "Config file")
	out = fs.String("o", "shots", "Output directory")
	q = fs.String("quality", "", "Quality tier")
	width = fs.Float64("width", 0, "Logical width")
	height = fs.Float64("height", 0, "Logical height")
	dpr = fs.Float64("dpr", 1, "Device pixel ratio")
	verbose = fs.Bool("v", false, "Debug logging")
	return
}

func loadOptions(configPath, out, q string, width, height, dpr float64) (shotOptions, *config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.LoadFile(configPath); err != nil {
			return shotOptions{}, nil, err
		}
	}
	opts := shotOptions{
		Dir:     out,
		Width:   float64(cfg.Window.Width),
		Height:  float64(cfg.Window.Height),
		DPR:     dpr,
		Quality: quality.High,
		Seed:    cfg.Animation.Seed,
	}
	if l, ok := cfg.Animation.Quality(); ok {
		opts.Quality = l
	}
	if q != "" {
		l, err := quality.ParseLevel(q)
		if err != nil {
			return shotOptions{}, nil, err
		}
		opts.Quality = l
	}
	if width > 0 {
		opts.Width = width
	}
	if height > 0 {
		opts.Height = height
	}
	return opts, cfg, nil
}

func cmdRender(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath, out, q, width, height, dpr, verbose := renderFlags(fs)
	clock := fs.Duration("time", 0, "Animation clock")
	stars := fs.Bool("stars", false, "Draw the star layer")
	manifest := fs.Bool("manifest", false, "Write manifest.json")
	thumb := fs.Int("thumb", 0, "Also write thumbnails of this width")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return errors.New("usage: journeyshot render [options] <progress>...")
	}
	initLogger(*verbose)

	opts, cfg, err := loadOptions(*configPath, *out, *q, *width, *height, *dpr)
	if err != nil {
		return err
	}
	opts.Time = *clock
	opts.Manifest = *manifest
	opts.Thumb = *thumb
	if *stars {
		opts.Stars = cfg.Animation.Stars
	}

	var progress []float64
	for _, a := range fs.Args() {
		p, err := strconv.ParseFloat(a, 64)
		if err != nil || p < 0 || p > 1 {
			return fmt.Errorf("invalid progress %q: want a number in [0,1]", a)
		}
		progress = append(progress, p)
	}

	shots, err := renderShots(opts, progress)
	if err != nil {
		return err
	}
	for _, s := range shots {
		fmt.Printf("%s  p=%.3f  stages=%d\n", s.File, s.Progress, len(s.Stages))
	}
	return nil
}

// renderShots writes one PNG per progress value and, if asked, a manifest.
func renderShots(opts shotOptions, progress []float64) ([]shot, error) {
	log := logger.Named("journeyshot")
	reg, err := cosmos.NewRegistry()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	s, err := canvas.New(opts.Width, opts.Height, opts.DPR)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	var field *starfield.Field
	if opts.Stars > 0 {
		field = starfield.NewField(opts.Width, opts.Height, opts.Stars, opts.Seed)
	}

	thumbs := capture.New(opts.Dir, "journey")
	var shots []shot
	var active []stage.Active
	for i, p := range progress {
		s.Clear()
		s.Fill(background)
		if field != nil {
			field.Draw(s)
		}
		active = reg.AppendActive(active[:0], p)
		stage.Draw(s, active, opts.Quality, opts.Time)
		s.Flush()

		name := fmt.Sprintf("journey_%03d.png", i)
		if err := s.SavePNG(filepath.Join(opts.Dir, name)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", name, err)
		}
		sh := shot{File: name, Progress: p, Quality: opts.Quality, TimeMS: opts.Time.Milliseconds()}
		if opts.Thumb > 0 {
			sh.Thumb = fmt.Sprintf("journey_%03d_thumb.png", i)
			if _, err := thumbs.Write(sh.Thumb, capture.Thumbnail(s.Image(), opts.Thumb)); err != nil {
				return nil, err
			}
		}
		for _, a := range active {
			sh.Stages = append(sh.Stages, shotStage{Name: a.Stage.Name, Opacity: a.Opacity, Progress: a.Progress})
		}
		shots = append(shots, sh)
		log.Debug("rendered", zap.String("file", name), zap.Float64("progress", p), zap.Int("stages", len(active)))
	}

	if opts.Manifest {
		if err := writeManifest(filepath.Join(opts.Dir, "manifest.json"), shots); err != nil {
			return nil, err
		}
	}
	return shots, nil
}

func writeManifest(path string, shots []shot) error {
	data, err := json.MarshalIndent(shots, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

func cmdStages(args []string) error {
	fs := flag.NewFlagSet("stages", flag.ExitOnError)
	fs.Parse(args)

	reg, err := cosmos.NewRegistry()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STAGE\tSTART\tEND\tFADE IN\tFADE OUT")
	for _, st := range reg.Stages() {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%.2f\t%.2f\n",
			st.Name, st.ScrollStart, st.ScrollEnd, st.TransitionIn, st.TransitionOut)
	}
	return tw.Flush()
}

func cmdFallback(args []string) error {
	fs := flag.NewFlagSet("fallback", flag.ExitOnError)
	configPath, out, q, width, height, dpr, verbose := renderFlags(fs)
	fs.Parse(args)
	initLogger(*verbose)

	opts, _, err := loadOptions(*configPath, *out, *q, *width, *height, *dpr)
	if err != nil {
		return err
	}
	path, err := renderFallback(opts)
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// renderFallback writes the static background shown on weak devices.
func renderFallback(opts shotOptions) (string, error) {
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	s, err := canvas.New(opts.Width, opts.Height, opts.DPR)
	if err != nil {
		return "", err
	}
	defer s.Close()

	s.Fill(background)
	cosmos.DrawFallback(s)
	s.Flush()

	path := filepath.Join(opts.Dir, "fallback.png")
	if err := s.SavePNG(path); err != nil {
		return "", fmt.Errorf("failed to write fallback: %w", err)
	}
	return path, nil
}

func initLogger(verbose bool) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
	}
}
