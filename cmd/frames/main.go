package main

import (
	"fmt"
	"os"

	"github.com/obsidianbox/frames/cmd/frames/commands"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "layout":
		err = commands.Layout(args)
	case "outline":
		err = commands.Outline(args)
	case "encode":
		err = commands.Encode(args)
	case "decode":
		err = commands.Decode(args)
	case "version", "-v", "--version":
		fmt.Printf("frames version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`frames - retained widget layout tool

Usage: frames <command> [options]

Commands:
  layout    Lay out a scene and print every visible widget's screen bounds
  outline   Lay out a scene and draw widget bounds to a PNG
  encode    Encode one widget of a scene to the tag-tree format
  decode    Decode a tag-tree widget and print it as a scene
  version   Print version information
  help      Show this help message

Examples:
  frames layout menu.toml                  Print the laid out widgets
  frames layout -width 1920 -height 1080 menu.yaml
  frames outline -o menu.png menu.toml     Draw widget bounds
  frames encode -o button.nbt menu.toml    Encode the first widget
  frames decode -format toml button.nbt    Print an encoded widget

Configuration:
  Loop settings are read from frames.toml in the working directory, or the
  file given with -config.`)
}
