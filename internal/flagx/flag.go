// Package flagx lets several components share os.Args without tripping over
// each other's flags: each one filters out the flags it owns before parsing.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Set names the flags a component owns. Valued flags may take their value
// from the following argument; Bool flags never do.
type Set struct {
	Valued []string
	Bool   []string
}

// Filter returns the arguments belonging to flags in s, in their original
// order.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
//  3. Bare boolean flag:                     -status
func (s Set) Filter(args []string) []string {
	valued := make(map[string]struct{}, len(s.Valued))
	for _, f := range s.Valued {
		valued[f] = struct{}{}
	}
	bools := make(map[string]struct{}, len(s.Bool))
	for _, f := range s.Bool {
		bools[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			_, v := valued[name]
			_, b := bools[name]
			if v || b {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := bools[arg]; ok {
			filtered = append(filtered, arg)
			continue
		}

		if _, ok := valued[arg]; ok {
			filtered = append(filtered, arg)
			// the next token is the value unless it looks like another flag
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// FilterArgs is Set{Valued: allowedFlags}.Filter(args).
func FilterArgs(args []string, allowedFlags []string) []string {
	return Set{Valued: allowedFlags}.Filter(args)
}

// ConfigPath extracts the config file path given via -c or -config.
// Other arguments are ignored. Returns "" when neither flag is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}
