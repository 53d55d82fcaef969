package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"github.com/cmdneo/loxwalk/interpreter"
	"github.com/cmdneo/loxwalk/parser"
	"github.com/cmdneo/loxwalk/resolver"
	"github.com/cmdneo/loxwalk/scanner"
	"github.com/peterh/liner"
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// loxInterpreter is global so its environment survives across lines
// typed at the REPL.
var loxInterpreter = interpreter.New()

func main() {
	debug := flag.Bool("debug", os.Getenv("LOX_DEBUG") != "", "log which pipeline stage failed")
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.WarnLevel)
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if profOut := os.Getenv("CPUPROFILE"); profOut != "" {
		f, err := os.Create(profOut)
		if err != nil {
			log.Fatalf("cannot create profile output file %q: %v", profOut, err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	switch flag.NArg() {
	case 0:
		runPrompt()
	case 1:
		runFile(flag.Arg(0))
	default:
		fmt.Fprintf(os.Stderr, "Usage: %s [-debug] [script]\n", os.Args[0])
		os.Exit(64)
	}
}

func runFile(path string) {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cannot open file %q (%v).\n", path, err)
		os.Exit(66)
	}

	if !run(string(source)) {
		os.Exit(70)
	}
}

func runPrompt() {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		text, err := line.Prompt("> ")
		if err == liner.ErrPromptAborted {
			continue
		}
		if err != nil {
			if err != liner.ErrPromptAborted && err != io.EOF {
				fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			}
			break
		}
		line.AppendHistory(text)
		run(text)
	}

	fmt.Fprintln(os.Stderr, "[EXIT]")
}

// run drives one source unit through the full pipeline. It returns
// false if any stage failed, so callers can decide on an exit code.
func run(source string) bool {
	tokens, err := scanner.New(source).Scan()
	if err != nil {
		log.Debugf("scan failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return false
	}

	stmts, err := parser.New(tokens).Parse()
	if err != nil {
		log.Debugf("parse failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return false
	}

	if err := resolver.New().Resolve(stmts); err != nil {
		log.Debugf("resolve failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return false
	}

	if err := loxInterpreter.Interpret(stmts); err != nil {
		log.Debugf("interpret failed: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return false
	}

	return true
}
