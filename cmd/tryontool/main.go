// tryontool is a CLI utility for running the try-on pipeline and
// inspecting garment assets without the HTTP service.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/fitmirror/internal/cloth"
	"github.com/Faultbox/fitmirror/internal/garment"
	"github.com/Faultbox/fitmirror/internal/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "garments", "ls":
		cmdGarments(args)
	case "run":
		cmdRun(args)
	case "model-info":
		cmdModelInfo(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tryontool - FitMirror pipeline utility

Usage:
  tryontool <command> [options]

Commands:
  garments -assets <dir>                         List catalog garments
  run -assets <dir> -image <file> -garment <id>  Run the pipeline once
  model-info <model.json>                        Inspect a blend-shape model

Examples:
  tryontool garments -assets ./assets
  tryontool run -assets ./assets -image photo.png -garment tshirt_basic -size M -out ./out
  tryontool model-info assets/garments/models/tshirt_basic.json`)
}

func cmdGarments(args []string) {
	fs := flag.NewFlagSet("garments", flag.ExitOnError)
	assets := fs.String("assets", "assets", "assets directory")
	fs.Parse(args)

	catalog := loadCatalog(*assets)
	for _, summary := range catalog.List() {
		physics := ""
		if summary.SupportsPhysics {
			physics = " [physics]"
		}
		colorways := make([]string, 0, len(summary.Colorways))
		for _, cw := range summary.Colorways {
			colorways = append(colorways, cw.ID)
		}
		fmt.Printf("%-16s %s (%s)%s\n", summary.ID, summary.Name, summary.Category, physics)
		fmt.Printf("  sizes: %s  colorways: %s\n",
			strings.Join(summary.Sizes, ", "), strings.Join(colorways, ", "))
	}
}

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	assets := fs.String("assets", "assets", "assets directory")
	image := fs.String("image", "", "input photograph")
	garmentID := fs.String("garment", "", "garment id")
	size := fs.String("size", "", "size id")
	color := fs.String("color", "", "colorway id or name")
	out := fs.String("out", "out", "output directory")
	fs.Parse(args)

	if *image == "" || *garmentID == "" {
		fmt.Fprintln(os.Stderr, "Usage: tryontool run -assets <dir> -image <file> -garment <id> [-size <id>] [-color <id>] [-out <dir>]")
		os.Exit(1)
	}

	catalog := loadCatalog(*assets)
	p := pipeline.New(catalog, cloth.DefaultParams(), nil)
	artifacts, err := p.Run(pipeline.Request{
		ImagePath: *image,
		OutputDir: *out,
		GarmentID: *garmentID,
		SizeID:    *size,
		ColorID:   *color,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Scene:      %s\n", artifacts.ModelPath)
	fmt.Printf("Preview:    %s\n", artifacts.PreviewPath)
	if artifacts.SimulationPath != "" {
		fmt.Printf("Simulation: %s\n", artifacts.SimulationPath)
	}
	metadata, err := json.MarshalIndent(artifacts.Metadata, "", "  ")
	if err == nil {
		fmt.Println(string(metadata))
	}
}

func cmdModelInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: tryontool model-info <model.json>")
		os.Exit(1)
	}

	model, err := garment.LoadModel(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Model:    %s\n", model.ID)
	fmt.Printf("Vertices: %d\n", len(model.BaseVerts))
	fmt.Printf("Indices:  %d\n", len(model.Indices))
	fmt.Printf("Pinned:   %d\n", len(model.Pinned))
	fmt.Printf("Centroid: (%.4f, %.4f, %.4f)\n", model.Centroid.X, model.Centroid.Y, model.Centroid.Z)
	fmt.Printf("Extents:  (%.4f, %.4f, %.4f)\n", model.Extents.X, model.Extents.Y, model.Extents.Z)
	fmt.Println("Components:")
	for _, component := range model.Components {
		weights := make([]string, 0, len(component.Weights))
		for feature, weight := range component.Weights {
			weights = append(weights, fmt.Sprintf("%s=%.3f", feature, weight))
		}
		fmt.Printf("  %-16s %s\n", component.Name, strings.Join(weights, " "))
	}
}

func loadCatalog(assets string) *garment.Catalog {
	catalog, err := garment.LoadCatalog(assets+"/garments", 32, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return catalog
}
