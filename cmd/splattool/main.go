// splattool is a CLI utility for inspecting Gaussian splat scene files.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Faultbox/arportal/internal/portal"
	"github.com/Faultbox/arportal/pkg/formats"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "head":
		cmdHead(args)
	case "fit":
		cmdFit(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`splattool - Gaussian splat scene utility

Usage:
  splattool <command> [options]

Commands:
  info <file.splat>              Show record count and bounds
  head <file.splat> [-n count]   Print the first records
  fit <file.splat> [options]     Preview the portal fit transform

Examples:
  splattool info garden.splat
  splattool head garden.splat -n 5
  splattool fit garden.splat -width 0.68 -height 1.75`)
}

func loadCloud(path string) *formats.SplatCloud {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cloud, err := formats.ParseSplat(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return cloud
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: splattool info <file.splat>")
		os.Exit(1)
	}

	cloud := loadCloud(args[0])
	size := cloud.Bounds.Size()
	center := cloud.Bounds.Center()

	fmt.Printf("File:    %s\n", args[0])
	fmt.Printf("Records: %d\n", cloud.Count())
	fmt.Printf("Bytes:   %d\n", cloud.Count()*formats.SplatRecordSize)
	fmt.Printf("Bounds:  min (%.3f, %.3f, %.3f)  max (%.3f, %.3f, %.3f)\n",
		cloud.Bounds.Min.X, cloud.Bounds.Min.Y, cloud.Bounds.Min.Z,
		cloud.Bounds.Max.X, cloud.Bounds.Max.Y, cloud.Bounds.Max.Z)
	fmt.Printf("Size:    %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Printf("Center:  (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
}

func cmdHead(args []string) {
	fs := flag.NewFlagSet("head", flag.ExitOnError)
	n := fs.Int("n", 10, "Number of records to print")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: splattool head <file.splat> [-n count]")
		os.Exit(1)
	}

	cloud := loadCloud(fs.Arg(0))
	count := *n
	if count > cloud.Count() {
		count = cloud.Count()
	}

	for i := 0; i < count; i++ {
		s := cloud.Splats[i]
		fmt.Printf("%6d  pos (%8.3f, %8.3f, %8.3f)  scale (%.3f, %.3f, %.3f)  rgba #%02x%02x%02x%02x\n",
			i,
			s.Position.X, s.Position.Y, s.Position.Z,
			s.Scale.X, s.Scale.Y, s.Scale.Z,
			s.Color[0], s.Color[1], s.Color[2], s.Color[3])
	}
}

func cmdFit(args []string) {
	fs := flag.NewFlagSet("fit", flag.ExitOnError)
	width := fs.Float64("width", 0.68, "Opening width in meters")
	height := fs.Float64("height", 1.75, "Opening height in meters")
	padding := fs.Float64("padding", 0.644, "Fit padding factor")
	align := fs.String("align", "center", "Horizontal alignment: center or left")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: splattool fit <file.splat> [options]")
		os.Exit(1)
	}

	cloud := loadCloud(fs.Arg(0))

	fitter := portal.Fitter{
		Opening: portal.Opening{
			Width:  float32(*width),
			Height: float32(*height),
		},
		Padding:   float32(*padding),
		Alignment: portal.ParseAlignment(*align),
	}

	res := fitter.Fit(cloud.Bounds)
	if !res.OK {
		fmt.Fprintln(os.Stderr, "Scene cannot be fitted: degenerate bounds or scale out of range")
		os.Exit(1)
	}

	size := cloud.Bounds.Size()
	fmt.Printf("Scene size: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Printf("Fit scale:  %.5f\n", res.Scale)
	fmt.Printf("Position:   (%.4f, %.4f, %.4f)\n", res.Position.X, res.Position.Y, res.Position.Z)
	fmt.Printf("Fitted:     %.3f x %.3f m in a %.2f x %.2f m opening\n",
		size.X*res.Scale, size.Y*res.Scale, *width, *height)
}
