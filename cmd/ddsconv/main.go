// ddsconv - convert and preview legacy texture and icon files
//
// Decodes DDS (DXT1 or uncompressed), EDDS and ICO files and writes PNG.
//
// Usage:
//   ddsconv convert FILE...   # FILE.dds -> FILE.png
//   ddsconv info FILE...      # Show size, mode and payload format
//   ddsconv show FILE...      # Convert to a temporary PNG and open it

package main

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/woozymasta/dds"
	"github.com/woozymasta/dds/internal/codec"
)

func main() {
	if len(os.Args) < 3 {
		printUsage()
		os.Exit(1)
	}

	var run func(string) error
	switch os.Args[1] {
	case "convert":
		run = convertFile
	case "info":
		run = showInfo
	case "show":
		run = showFile
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	failed := 0
	for _, path := range os.Args[2:] {
		if err := run(path); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed++
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("ddsconv - DDS/EDDS/ICO to PNG converter")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  ddsconv convert FILE...   Write FILE.png next to each input")
	fmt.Println("  ddsconv info FILE...      Show texture info")
	fmt.Println("  ddsconv show FILE...      Open a PNG preview")
}

// decode checks the file exists and decodes it by extension.
func decode(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%q: no such file or directory", path)
	}

	img, _, err := codec.DecodeFile(path)
	if errors.Is(err, codec.ErrUnknownFormat) || errors.Is(err, codec.ErrUnsupported) {
		return nil, fmt.Errorf("unknown file format for %s: %w", path, err)
	}

	return img, err
}

func convertFile(path string) error {
	img, err := decode(path)
	if err != nil {
		return err
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
	if err := writePNG(out, img); err != nil {
		return err
	}

	fmt.Printf("Converted %s → %s\n", path, out)
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}

	return f.Close()
}

func showInfo(path string) error {
	c, err := codec.Lookup(path)
	if err != nil {
		return err
	}

	if c.Name != "DDS" && c.Name != "EDDS" {
		img, err := decode(path)
		if err != nil {
			return err
		}
		b := img.Bounds()
		fmt.Printf("%s: %s %dx%d\n", path, c.Name, b.Dx(), b.Dy())
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	open := dds.OpenWithOptions
	if c.Name == "EDDS" {
		open = dds.OpenEDDS
	}
	img, err := open(f, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	h := img.Header()
	fmt.Printf("%s: %s %dx%d mode=%s format=%s mipmaps=%d\n",
		path, c.Name, img.Width(), img.Height(), img.Mode(), img.Format(), h.MipMapCount)
	return nil
}

func showFile(path string) error {
	img, err := decode(path)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", "ddsconv-*.png")
	if err != nil {
		return err
	}
	name := tmp.Name()
	_ = tmp.Close()

	if err := writePNG(name, img); err != nil {
		return err
	}

	return openViewer(name)
}

// openViewer hands the file to the platform's default application.
func openViewer(path string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("open viewer: %w", err)
	}

	return nil
}
