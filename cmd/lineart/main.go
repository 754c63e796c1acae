// seehuhn.de/go/lineart - trace the vector graphics of PDF pages
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command lineart traces the vector graphics of the pages of a PDF file
// and prints them as JSON.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"golang.org/x/term"

	"seehuhn.de/go/lineart"
	"seehuhn.de/go/lineart/internal/config"
)

var (
	modeArg    = flag.String("mode", "lineart", "output `mode`: lineart, bbox or text")
	clipsArg   = flag.Bool("clips", false, "report clip paths and transparency groups")
	layersArg  = flag.Bool("layers", false, "record optional content layers in bbox mode")
	pageArg    = flag.Int("page", 0, "trace only page `N` (1-based, 0 for all pages)")
	streamArg  = flag.Bool("stream", false, "print records as soon as they are complete, one per line")
	strictArg  = flag.Bool("strict", false, "treat unbalanced clip and group scopes as errors")
	workersArg = flag.Int("workers", 1, "number of pages traced in parallel")
	pngArg     = flag.String("png", "", "write a preview of each page to `prefix`-NNN.png")
	configArg  = flag.String("config", "", "read settings from `file` (YAML or TOML)")
	passwdArg  = flag.String("p", "", "PDF password")
	verboseArg = flag.Bool("v", false, "log debug messages")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "lineart: trace the vector graphics of PDF pages\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  lineart [options] <file.pdf>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nWithout -config, the settings are read from %s in the current\n", config.DefaultNames[0])
		fmt.Fprintf(os.Stderr, "directory, if present.  Command line flags take precedence.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  lineart -clips document.pdf\n")
		fmt.Fprintf(os.Stderr, "  lineart -mode bbox -page 3 -png preview document.pdf\n")
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	level := slog.LevelWarn
	if *verboseArg {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	opt, err := getOptions()
	if err != nil {
		return err
	}
	opt.Logger = logger
	opt.Indent = term.IsTerminal(int(os.Stdout.Fd()))
	opt.ReadPassword = readPassword

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return traceFile(ctx, flag.Arg(0), opt, os.Stdout)
}

// getOptions combines the configuration file with the command line flags.
func getOptions() (*options, error) {
	var cfg *config.Config
	var err error
	if *configArg != "" {
		cfg, err = config.Load(*configArg)
	} else {
		cfg, err = config.LoadOptional(".")
	}
	if err != nil {
		return nil, err
	}

	isSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { isSet[f.Name] = true })
	if !isSet["mode"] && cfg.Mode != "" {
		*modeArg = cfg.Mode
	}
	if !isSet["clips"] {
		*clipsArg = *clipsArg || cfg.Clips
	}
	if !isSet["layers"] {
		*layersArg = *layersArg || cfg.Layers
	}
	if !isSet["strict"] {
		*strictArg = *strictArg || cfg.Strict
	}
	if !isSet["stream"] {
		*streamArg = *streamArg || cfg.Stream
	}
	if !isSet["workers"] && cfg.Workers > 0 {
		*workersArg = cfg.Workers
	}
	if !isSet["png"] && cfg.PNG != "" {
		*pngArg = cfg.PNG
	}

	mode, err := lineart.ParseMode(*modeArg)
	if err != nil {
		return nil, err
	}
	if *pageArg < 0 {
		return nil, fmt.Errorf("invalid page number %d", *pageArg)
	}

	return &options{
		Mode:         mode,
		Clips:        *clipsArg,
		Layers:       *layersArg,
		Strict:       *strictArg,
		Stream:       *streamArg,
		Page:         *pageArg,
		Workers:      max(*workersArg, 1),
		PNG:          *pngArg,
		Password:     *passwdArg,
		MaxFormDepth: cfg.MaxFormDepth,
	}, nil
}

// readPassword asks for the password of an encrypted file.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("file is encrypted, use -p to give a password")
	}
	fmt.Fprint(os.Stderr, "password: ")
	passwd, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(passwd), nil
}
