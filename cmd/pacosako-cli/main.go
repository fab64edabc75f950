package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/pacosako/engine/internal/uciwire"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	maxNodes   = flag.Int("maxnodes", 800, "default MCTS tree size per go command")
)

func main() {
	flag.Parse()

	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	driver := uciwire.New(uciwire.HeuristicEvaluator{}, *maxNodes)
	driver.Run(os.Stdin, os.Stdout)
}
