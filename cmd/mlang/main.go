package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"mlang/interpreter-go/pkg/driver"
	"mlang/interpreter-go/pkg/interpreter"
	"mlang/interpreter-go/pkg/runtime"
	"mlang/interpreter-go/pkg/resolver"
)

const cliToolVersion = "mlang-cli 0.1.0-dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stderr)
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage(stderr)
		return 0
	case "--version", "-V", "version":
		fmt.Fprintf(stdout, "%s (language %s)\n", cliToolVersion, driver.LanguageVersion)
		return 0
	case "run":
		return runPrograms(args[1:], stdout, stderr)
	case "check":
		return checkPrograms(args[1:], stdout, stderr)
	default:
		return runPrograms(args, stdout, stderr)
	}
}

type runFlags struct {
	config          string
	jobs            int
	timeout         time.Duration
	maxDepth        int
	silentRedeclare bool
	verbose         bool
	quiet           bool
	printResult     bool
	failFast        bool
	check           bool
}

func parseRunFlags(name string, args []string, stderr io.Writer) (*runFlags, []string, map[string]bool, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	var f runFlags
	fs.StringVar(&f.config, "config", "", "path to mlang.yml (default: search upwards from the working directory)")
	fs.IntVar(&f.jobs, "j", 0, "maximum number of programs evaluated concurrently (0 = unlimited)")
	fs.DurationVar(&f.timeout, "timeout", 0, "abort evaluation after this duration (0 = no limit)")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "maximum function call depth")
	fs.BoolVar(&f.silentRedeclare, "silent-redeclare", false, "do not warn when a name is redeclared in the same scope")
	fs.BoolVar(&f.verbose, "v", false, "log debug traces")
	fs.BoolVar(&f.quiet, "quiet", false, "only log errors")
	fs.BoolVar(&f.printResult, "print-result", false, "print each program's final value")
	fs.BoolVar(&f.failFast, "fail-fast", false, "cancel remaining programs after the first failure")
	fs.BoolVar(&f.check, "check", false, "refuse to run programs with unresolved names or arity mismatches")
	if err := fs.Parse(args); err != nil {
		return nil, nil, nil, err
	}
	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return &f, fs.Args(), set, nil
}

// resolveManifest loads the explicit -config file, or searches for one when no
// program was named on the command line.
func resolveManifest(config string, programs []string) (*driver.Manifest, error) {
	if config != "" {
		return driver.LoadManifest(config)
	}
	if len(programs) > 0 {
		return nil, nil
	}
	path, err := driver.FindManifest(".")
	if err != nil {
		if errors.Is(err, driver.ErrManifestNotFound) {
			return nil, fmt.Errorf("no programs given and %s not found", driver.ManifestFileName)
		}
		return nil, err
	}
	return driver.LoadManifest(path)
}

func newLogger(w io.Writer, f *runFlags) *slog.Logger {
	level := slog.LevelWarn
	switch {
	case f.verbose:
		level = slog.LevelDebug
	case f.quiet:
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func runPrograms(args []string, stdout, stderr io.Writer) int {
	f, paths, set, err := parseRunFlags("run", args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	manifest, err := resolveManifest(f.config, paths)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	if len(paths) == 0 {
		paths = manifest.ProgramPaths()
	}

	opts := interpreter.OptionsFromManifest(manifest)
	if set["max-depth"] {
		opts.MaxCallDepth = f.maxDepth
	}
	if set["silent-redeclare"] {
		opts.SilentRedeclare = f.silentRedeclare
	}
	opts.Logger = newLogger(stderr, f)

	programs := make([]*driver.Program, 0, len(paths))
	for _, path := range paths {
		program, err := driver.LoadProgram(path)
		if err != nil {
			fmt.Fprintf(stderr, "failed to load program: %v\n", err)
			return 1
		}
		if f.check && reportDiagnostics(stderr, program) {
			return 1
		}
		programs = append(programs, program)
	}

	ctx := context.Background()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	if len(programs) == 1 {
		opts.Stdout = stdout
		interp := interpreter.NewWithOptions(opts)
		val, err := interp.EvaluateNode(ctx, programs[0].Root)
		if err != nil {
			fmt.Fprintf(stderr, "runtime error: %s\n", describeError(err))
			return 1
		}
		if f.printResult {
			fmt.Fprintln(stdout, interpreter.DescribeValue(val))
		}
		return 0
	}

	results, _ := interpreter.RunBatch(ctx, programs, interpreter.BatchOptions{
		Options:  opts,
		Executor: &interpreter.GoroutineExecutor{Limit: f.jobs, FailFast: f.failFast},
	})
	status := 0
	for _, res := range results {
		io.WriteString(stdout, res.Stdout)
		if res.Err != nil {
			fmt.Fprintf(stderr, "runtime error: %s\n", describeError(res.Err))
			status = 1
			continue
		}
		if f.printResult {
			fmt.Fprintf(stdout, "%s: %s\n", res.Path, interpreter.DescribeValue(res.Value))
		}
	}
	return status
}

func checkPrograms(args []string, stdout, stderr io.Writer) int {
	f, paths, _, err := parseRunFlags("check", args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	manifest, err := resolveManifest(f.config, paths)
	if err != nil {
		fmt.Fprintf(stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	if len(paths) == 0 {
		paths = manifest.ProgramPaths()
	}
	status := 0
	for _, path := range paths {
		program, err := driver.LoadProgram(path)
		if err != nil {
			fmt.Fprintf(stderr, "%v\n", err)
			status = 1
			continue
		}
		if reportDiagnostics(stderr, program) {
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "ok %s\n", path)
	}
	return status
}

// reportDiagnostics prints name resolution diagnostics for program and
// reports whether there were any.
func reportDiagnostics(stderr io.Writer, program *driver.Program) bool {
	diags, err := resolver.New().ResolveNode(program.Root)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", program.Path, err)
		return true
	}
	for _, diag := range diags {
		fmt.Fprintf(stderr, "%s: %s\n", program.Path, diag)
	}
	return len(diags) > 0
}

func describeError(err error) string {
	if kind := runtime.ErrorKindOf(err); kind != "" {
		return fmt.Sprintf("%s: %v", kind, err)
	}
	return err.Error()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mlang run [flags] [program.yml ...]")
	fmt.Fprintln(w, "  mlang check [-config mlang.yml] [program.yml ...]")
	fmt.Fprintln(w, "  mlang <program.yml>")
	fmt.Fprintln(w, "  mlang version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Without program arguments the programs listed in mlang.yml are used.")
}
