// Command texseam loads a textured OBJ mesh and its texture, makes the
// texture's UV seams sample-identical across both sides of every seam,
// and emits both a seamless PNG texture and two BC1/DDS compressions (a
// naive per-block compression, and one whose block endpoints are
// re-solved for seam consistency).
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/joho/godotenv"

	"github.com/a-sokolov/texseam/texseam"
)

// version is stamped at build time via -ldflags; it defaults to a
// development placeholder otherwise.
var version = "0.0.0-dev"

func parseArgs(args []string) (positional []string, options map[byte]bool) {
	options = make(map[byte]bool)
	for _, arg := range args {
		switch {
		case len(arg) == 2 && arg[0] == '-':
			options[arg[1]] = true
			fmt.Fprintf(os.Stderr, "Found option: %c\n", arg[1])
		case len(arg) > 0 && arg[0] != '-':
			positional = append(positional, arg)
			fmt.Fprintf(os.Stderr, "Found positional argument: %s\n", arg)
		default:
			fmt.Fprintf(os.Stderr, "Warning: unrecognized argument %s\n", arg)
		}
	}
	return positional, options
}

func meshBaseName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}

// maxCompressIter returns the outer seam-solve iteration cap for the
// "_sc_seamless" output, overridable via the TEXSEAM_MAX_ITER environment
// variable (optionally loaded from a .env file via godotenv). The default
// of 1 matches the documented output: one iteration of the compressed
// seam solver.
func maxCompressIter() int {
	_ = godotenv.Load()
	if v := os.Getenv("TEXSEAM_MAX_ITER"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

func run(args []string) error {
	positional, options := parseArgs(args)
	_ = options // -c is accepted for compatibility but every output is always written

	if len(positional) < 2 {
		return usageError{"usage: texseam mesh.obj texture.png [-c]"}
	}

	meshName := meshBaseName(positional[0])

	fmt.Fprintln(os.Stderr, "Loading mesh...")
	m, err := texseam.LoadOBJ(positional[0])
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Computing seams...")
	m.ComputeSeams()
	m.MirrorV()

	fmt.Fprintln(os.Stderr, "Loading texture...")
	img, err := texseam.LoadImage(positional[1])
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "Computing pixel masks...")
	ni := img.SetMaskInternal(m)
	ns := img.SetMaskSeam(m)
	fmt.Fprintf(os.Stderr, "%d internal pixels, %d seam pixels\n", ni, ns)

	seamless := img.Clone()
	{
		fmt.Fprintln(os.Stderr, "Solving seamless...")
		t0 := time.Now()
		var solver texseam.Solver
		report, err := solver.FixSeams(m, seamless)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Optimization took %s\n", time.Since(t0))
		fmt.Fprintf(os.Stderr, "Error tot %v -> %v\n", report.TotalBefore, report.TotalAfter)
		fmt.Fprintf(os.Stderr, "Error seamless %v -> %v\n", report.SeamlessBefore, report.SeamlessAfter)
		fmt.Fprintf(os.Stderr, "Error identity %v -> %v\n", report.IdentityBefore, report.IdentityAfter)

		textureOutName := meshName + "_s.png"
		meshOutName := meshName + "_s"
		if err := seamless.Save(textureOutName); err != nil {
			return err
		}
		if err := m.SaveOBJ(meshOutName, textureOutName, true); err != nil {
			return err
		}
	}

	{
		fmt.Fprintln(os.Stderr, "Solving seamless seam-aware compression...")
		cimg, err := texseam.CompressSeamAware(m, seamless, maxCompressIter())
		if err != nil {
			return err
		}
		textureOutName := meshName + "_sc_seamless.png"
		textureOutNameDDS := meshName + "_sc_seamless.dds"
		meshOutName := meshName + "_sc_seamless"
		if err := cimg.SaveUncompressed(textureOutName); err != nil {
			return err
		}
		if err := cimg.Save(textureOutNameDDS); err != nil {
			return err
		}
		if err := m.SaveOBJ(meshOutName, textureOutName, true); err != nil {
			return err
		}
	}

	{
		fmt.Fprintln(os.Stderr, "Compressing seamless texture with PCA...")
		cimg, err := texseam.NewCompressedImage(seamless, uint8(texseam.Internal)|uint8(texseam.Seam))
		if err != nil {
			return err
		}
		cimg.QuantizeBlocks()

		textureOutName := meshName + "_sc.png"
		textureOutNameDDS := meshName + "_sc.dds"
		meshOutName := meshName + "_sc"
		if err := cimg.SaveUncompressed(textureOutName); err != nil {
			return err
		}
		if err := cimg.Save(textureOutNameDDS); err != nil {
			return err
		}
		if err := m.SaveOBJ(meshOutName, textureOutName, true); err != nil {
			return err
		}
	}

	return nil
}

// usageError signals a command-line misuse (exit code 2), distinct from
// an I/O or processing failure (exit code 1).
type usageError struct{ msg string }

func (e usageError) Error() string { return e.msg }

func main() {
	args := os.Args[1:]
	if len(args) == 1 && (args[0] == "-version" || args[0] == "--version") {
		v, _ := semver.Make(version)
		fmt.Println("texseam", v.String())
		return
	}

	if err := run(args); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if _, ok := err.(usageError); ok {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
