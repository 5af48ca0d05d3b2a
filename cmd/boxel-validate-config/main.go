package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/boxelgame/boxel/lib/config"
)

func main() {
	quiet := flag.Bool("q", false, "Only report invalid files")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [-q] <config file>...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	invalid := 0
	for _, path := range flag.Args() {
		cfg, err := config.Parse(path)
		if err != nil {
			fmt.Printf("%s: config invalid: %s\n", path, err)
			invalid++
			continue
		}
		if *quiet {
			continue
		}
		fmt.Printf("%s: config valid!\n\n", path)
		fmt.Print(cfg)
		fmt.Println()
	}
	if invalid > 0 {
		os.Exit(1)
	}
}
