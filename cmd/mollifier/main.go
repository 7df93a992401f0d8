// Command mollifier serves the interactive mollifier views or renders one of
// them to a file.
//
//	mollifier serve  [--addr :8080] [--config mollifier.yaml]
//	mollifier render --view convolution --eps 0.2 --position 0 --format png --out conv.png
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/uyouii/mollifier/config"
	"github.com/uyouii/mollifier/render"
	"github.com/uyouii/mollifier/server"
	"github.com/uyouii/mollifier/utils"
	"github.com/uyouii/mollifier/view"
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := "serve"
	if len(args) > 0 && (args[0] == "serve" || args[0] == "render") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "serve":
		err = serve(ctx, args, stderr)
	case "render":
		err = renderView(ctx, args, stdout, stderr)
	}
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "mollifier %s: %v\n", cmd, err)
		return 1
	}
	return 0
}

func setup(name string, args []string, stderr io.Writer, extra func(fs *flag.FlagSet)) (*config.Config, *flag.FlagSet, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	config.RegisterFlags(fs)
	if extra != nil {
		extra(fs)
	}
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(fs)
	if err != nil {
		return nil, nil, err
	}
	if err := utils.SetupLogger(cfg.LogLevel, cfg.LogDevelopment); err != nil {
		return nil, nil, err
	}
	return cfg, fs, nil
}

func serve(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, _, err := setup("serve", args, stderr, nil)
	if err != nil {
		return err
	}
	logger := utils.GetLogger(ctx)
	defer func() { _ = logger.Sync() }()

	srv := server.NewServer(cfg)
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
		return err
	}
	return nil
}

func renderView(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		name     string
		format   string
		out      string
		panel    int
		eps      float64
		position float64
	)
	cfg, fs, err := setup("render", args, stderr, func(fs *flag.FlagSet) {
		fs.StringVar(&name, "view", view.ConvolutionView, "view to render: graph, convolution, step")
		fs.StringVar(&format, "format", "svg", "output format: svg, png, json")
		fs.StringVarP(&out, "out", "o", "", "output file (stdout when empty)")
		fs.IntVar(&panel, "panel", 0, "panel index for svg and png")
		fs.Float64Var(&eps, "eps", 0, "epsilon (the view's default when unset)")
		fs.Float64Var(&position, "position", 0, "position t or x (the view's default when unset)")
	})
	if err != nil {
		return err
	}

	preset, ok := cfg.Views[name]
	if !ok {
		return fmt.Errorf("unknown view %q, have %v", name, view.Names(cfg.Views))
	}
	v, err := view.New(name, preset, cfg.ViewOptions())
	if err != nil {
		return err
	}
	defer v.Close()

	if fs.Changed("eps") {
		if err := v.Apply(ctx, view.Action{Type: view.ActionSetEpsilon, Value: eps}); err != nil {
			return err
		}
	}
	if fs.Changed("position") {
		if err := v.Apply(ctx, view.Action{Type: view.ActionSetPosition, Value: position}); err != nil {
			return err
		}
	}
	scene, err := v.Scene(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "json", "svg", "png":
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if format != "json" && (panel < 0 || panel >= len(scene.Panels)) {
		return fmt.Errorf("panel %d out of range, %s has %d", panel, name, len(scene.Panels))
	}

	w := stdout
	if out != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	switch format {
	case "svg":
		return render.WriteSVG(scene.Panels[panel], w)
	case "png":
		return render.WritePNG(scene.Panels[panel], w)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(scene)
}
