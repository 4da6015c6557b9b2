// Command glslopt runs the optimizing pipeline over a built-in demo
// shader and prints its raw and optimized source.
//
// Usage:
//
//	glslopt [options] <shader>
//
// Examples:
//
//	glslopt lambert             # fragment stage, print both raw and optimized
//	glslopt -stage fragment -optimized-only lambert
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/gogpu/glslopt"
)

var (
	stageFlag         = flag.String("stage", "fragment", "shader stage: vertex or fragment")
	optimizedOnlyFlag = flag.Bool("optimized-only", false, "print only the optimized output")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one demo shader name")
		usage()
		os.Exit(1)
	}
	name := args[0]

	stage, err := parseStage(*stageFlag)
	if err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}

	ctx := glslopt.NewContext(demoFrontEnd{})
	defer ctx.Close()

	shader := ctx.Optimize(stage, name)
	defer shader.Close()

	if !shader.Status() {
		color.Red("✗ failed to compile %q", name)
		fmt.Fprint(os.Stderr, shader.Log())
		os.Exit(1)
	}

	if !*optimizedOnlyFlag {
		fmt.Println("// raw")
		fmt.Println(shader.RawOutput())
	}
	fmt.Println("// optimized")
	fmt.Println(shader.OptimizedOutput())

	color.Green("✓ compiled %q (%s stage)", name, stage)
}

func parseStage(s string) (glslopt.Stage, error) {
	switch s {
	case "vertex":
		return glslopt.StageVertex, nil
	case "fragment":
		return glslopt.StageFragment, nil
	default:
		return 0, fmt.Errorf("unknown stage %q, want vertex or fragment", s)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: glslopt [options] <shader>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nAvailable shaders: %s\n", demoShaderNames())
}
