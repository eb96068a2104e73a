// Command luhn validates numbers with the Luhn checksum.
//
// Numbers are taken from arguments or, if there are none, from stdin one per line.
// Exit code is 1 if any number is not valid, 2 on usage errors.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/pflag"

	"github.com/nkiryanov/luhncheck/internal/luhn"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	checkDigit bool
	explain    bool
}

func run(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) int {
	var opts options

	fs := pflag.NewFlagSet("luhn", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVarP(&opts.checkDigit, "check-digit", "c", false, "Print every input completed with its check digit")
	fs.BoolVarP(&opts.explain, "explain", "x", false, "Print the reason and digits count for every input")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: luhn [flags] [number ...]")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	code := exitOK
	process := func(input string) {
		if !handle(stdout, input, opts) {
			code = exitInvalid
		}
	}

	if fs.NArg() > 0 {
		for _, input := range fs.Args() {
			process(input)
		}
		return code
	}

	scanner := bufio.NewScanner(stdin)
	for scanner.Scan() {
		process(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "luhn: can't read input: %v\n", err)
		return exitUsage
	}

	return code
}

// Print result for the single input; false if the input is not valid
func handle(w io.Writer, input string, opts options) bool {
	if opts.checkDigit {
		digit, err := luhn.CheckDigit(input)
		if err != nil {
			fmt.Fprintf(w, "%q\terror: %v\n", input, err)
			return false
		}
		fmt.Fprintf(w, "%s%d\n", input, digit)
		return true
	}

	report := luhn.Inspect(input)

	verdict := "invalid"
	if report.Valid {
		verdict = "valid"
	}

	if opts.explain {
		fmt.Fprintf(w, "%q\t%s\t%s\tdigits=%d\n", input, verdict, report.Reason, report.Digits)
	} else {
		fmt.Fprintf(w, "%q\t%s\n", input, verdict)
	}

	return report.Valid
}
