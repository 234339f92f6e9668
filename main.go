// Copyright
// SPDX-License-Identifier: MIT
// texttools: terminal text editor with encoding detection, whitespace cleanup and file merging
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	"texttools/internal/encodings"
	"texttools/internal/fileio"
	"texttools/internal/logging"
	"texttools/internal/session"
	"texttools/internal/settings"
	"texttools/internal/textproc"
	"texttools/internal/tui"
)

const Version = "0.3.0"

/* ---------- CLI ---------- */

func main() {
	if len(os.Args) < 2 {
		cmdEdit(nil)
		return
	}
	switch os.Args[1] {
	case "help", "-h", "--help":
		if len(os.Args) > 2 {
			helpTopic(os.Args[2])
		} else {
			usage()
		}
	case "version", "-v", "--version":
		fmt.Println("texttools", Version)
	case "edit":
		cmdEdit(os.Args[2:])
	case "clean":
		cmdClean(os.Args[2:])
	case "replace":
		cmdReplace(os.Args[2:])
	case "merge":
		cmdMerge(os.Args[2:])
	case "convert":
		cmdConvert(os.Args[2:])
	case "detect":
		cmdDetect(os.Args[2:])
	default:
		if strings.HasPrefix(os.Args[1], "-") {
			usage()
			os.Exit(2)
		}
		// a bare path opens that file in the editor
		cmdEdit(os.Args[1:])
	}
}

func usage() {
	fmt.Print(`texttools ` + Version + `
Terminal text editor with encoding detection, whitespace cleanup and file merging.
USAGE
  texttools [command] [options] [file ...]
COMMANDS
  edit         Open the editor TUI (default when no command is given)
  clean        Run cleaning passes over files and print or rewrite them
  replace      Replace every occurrence of a string in files
  merge        Concatenate files with a separator
  convert      Re-encode files as UTF-8 in place
  detect       Print the detected encoding of each file
  help         Show help (try: texttools help clean)
  version      Print version
NOTES
  • Running with no command opens the editor; a bare path opens that file.
  • Settings live in ~/.texttools/settings.json; the editor logs to ~/.texttools/texttools.log.

`)
}

func helpTopic(name string) {
	switch name {
	case "edit":
		fmt.Print(`USAGE
  texttools edit [--log-level LEVEL] [FILE]
DESCRIPTION
  Opens the editor TUI, optionally loading FILE. Files are decoded with
  automatic encoding detection and saved atomically in their original
  encoding. Press ? inside the editor for the key reference.
OPTIONS
  --log-level LEVEL      debug | info | warn | error (default: info).
                         Logs append to ~/.texttools/texttools.log.

`)
	case "clean":
		fmt.Print(`USAGE
  texttools clean [-trim] [-spaces] [-tabs] [-all] [-w] FILE ...
DESCRIPTION
  Runs the selected cleaning passes over each file in a fixed order:
  trim whitespace, then clean whitespace, then remove tabs. Without -w
  the cleaned text is printed to stdout; with -w files are rewritten in
  place, keeping their detected encoding.
OPTIONS
  -trim     Strip trailing whitespace and boundary blank lines
  -spaces   Collapse runs of two or more spaces into one
  -tabs     Remove leading tabs and spaces from each line
  -all      Enable every pass
  -w        Rewrite files in place instead of printing
  -v        Verbose logs to stderr

`)
	case "replace":
		fmt.Print(`USAGE
  texttools replace -find TEXT [-replace TEXT] [-w] FILE ...
DESCRIPTION
  Replaces every occurrence of the search text. Without -w the result is
  printed to stdout; with -w files are rewritten in place.
OPTIONS
  -find TEXT      Text to search for (required)
  -replace TEXT   Replacement text (default: empty, removes matches)
  -w              Rewrite files in place instead of printing
  -v              Verbose logs to stderr

`)
	case "merge":
		fmt.Print(`USAGE
  texttools merge [-sep SEP] [-o PATH] [-i] [FILE ...]
DESCRIPTION
  Reads every file in order and joins their contents with the separator.
  The merged document goes to stdout, or to -o PATH as UTF-8.
OPTIONS
  -sep SEP   Separator between files; \n, \t and \\ escapes (default: \n)
  -o PATH    Write the merged document to PATH instead of stdout
  -i         Pick, order and confirm the files interactively first
  -v         Verbose logs to stderr

`)
	case "convert":
		fmt.Print(`USAGE
  texttools convert FILE ...
DESCRIPTION
  Detects each file's encoding and rewrites it as UTF-8 in place. Files
  already in UTF-8 are left untouched.

`)
	case "detect":
		fmt.Print(`USAGE
  texttools detect FILE ...
DESCRIPTION
  Prints the detected encoding of each file, one per line.

`)
	default:
		usage()
	}
}

/* ---------- commands ---------- */

func cmdEdit(args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	fs.Usage = func() { helpTopic("edit") }
	level := fs.String("log-level", "info", "Log level: debug|info|warn|error")
	_ = fs.Parse(args)

	prefs, err := settings.Load(settings.Path())
	if err != nil {
		fmt.Fprintln(os.Stderr, "texttools: using default settings:", err)
	}

	logger := logging.Nop()
	lf, err := logging.OpenFile(filepath.Join(settings.Dir(), "texttools.log"))
	if err != nil {
		fmt.Fprintln(os.Stderr, "texttools: could not open log file:", err)
	} else {
		defer lf.Close()
		logger = logging.New(lf, *level)
	}

	sess := newSession(logger, prefs)
	if err := tui.Run(sess, prefs, logger.WithPrefix("tui"), fs.Arg(0)); err != nil {
		fatal(err)
	}
}

func cmdClean(args []string) {
	fs := flag.NewFlagSet("clean", flag.ExitOnError)
	fs.Usage = func() { helpTopic("clean") }
	trim := fs.Bool("trim", false, "Strip trailing whitespace and boundary blank lines")
	spaces := fs.Bool("spaces", false, "Collapse runs of spaces")
	tabs := fs.Bool("tabs", false, "Remove leading tabs and spaces")
	all := fs.Bool("all", false, "Enable every pass")
	write := fs.Bool("w", false, "Rewrite files in place instead of printing")
	verbose := fs.Bool("v", false, "Verbose logs to stderr")
	_ = fs.Parse(args)

	opts := textproc.Options{
		TrimWhitespace:  *trim || *all,
		CleanWhitespace: *spaces || *all,
		RemoveTabs:      *tabs || *all,
	}
	if !opts.Enabled() {
		fatal(fmt.Errorf("no cleaning passes selected (use -trim, -spaces, -tabs or -all)"))
	}
	if fs.NArg() == 0 {
		fatal(fmt.Errorf("no input files"))
	}

	sess, failed := headlessSession(*verbose)
	for _, path := range fs.Args() {
		sess.LoadFile(path)
		if *failed {
			os.Exit(1)
		}
		sess.ApplyCleaning(opts, nil)
		doc, _ := sess.Current()
		if *write {
			sess.SaveFile(doc.Path, doc.Content)
			if *failed {
				os.Exit(1)
			}
		} else {
			printDocument(doc.Content)
		}
	}
}

func cmdReplace(args []string) {
	fs := flag.NewFlagSet("replace", flag.ExitOnError)
	fs.Usage = func() { helpTopic("replace") }
	find := fs.String("find", "", "Text to search for (required)")
	repl := fs.String("replace", "", "Replacement text")
	write := fs.Bool("w", false, "Rewrite files in place instead of printing")
	verbose := fs.Bool("v", false, "Verbose logs to stderr")
	_ = fs.Parse(args)

	if *find == "" {
		fatal(fmt.Errorf("-find is required"))
	}
	if fs.NArg() == 0 {
		fatal(fmt.Errorf("no input files"))
	}

	sess, failed := headlessSession(*verbose)
	for _, path := range fs.Args() {
		sess.LoadFile(path)
		if *failed {
			os.Exit(1)
		}
		sess.ReplaceAll(*find, *repl, nil)
		doc, _ := sess.Current()
		if *write {
			sess.SaveFile(doc.Path, doc.Content)
			if *failed {
				os.Exit(1)
			}
		} else {
			printDocument(doc.Content)
		}
	}
}

func cmdMerge(args []string) {
	fs := flag.NewFlagSet("merge", flag.ExitOnError)
	fs.Usage = func() { helpTopic("merge") }
	out := fs.String("o", "", "Write the merged document to this path")
	sep := fs.String("sep", `\n`, `Separator between files (\n, \t and \\ escapes)`)
	interactive := fs.Bool("i", false, "Pick and order the files interactively")
	verbose := fs.Bool("v", false, "Verbose logs to stderr")
	_ = fs.Parse(args)

	paths := fs.Args()
	separator := textproc.UnescapeSeparator(*sep)
	if *interactive {
		picked, s, ok, err := tui.CollectMergePaths(paths, separator)
		if err != nil {
			fatal(err)
		}
		if !ok {
			fmt.Fprintln(os.Stderr, "Cancelled.")
			return
		}
		paths, separator = picked, s
	}
	if len(paths) == 0 {
		fatal(fmt.Errorf("no input files"))
	}

	sess, failed := headlessSession(*verbose)
	sess.SetMergeSeparator(separator)
	sess.AddFilesToMerge(paths)
	sess.ExecuteMerge()
	if *failed {
		os.Exit(1)
	}
	doc, _ := sess.Current()
	if *out != "" {
		sess.SaveFile(*out, doc.Content)
		if *failed {
			os.Exit(1)
		}
		return
	}
	printDocument(doc.Content)
}

func cmdConvert(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	fs.Usage = func() { helpTopic("convert") }
	verbose := fs.Bool("v", false, "Verbose logs to stderr")
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		fatal(fmt.Errorf("no input files"))
	}

	sess, failed := headlessSession(*verbose)
	for _, path := range fs.Args() {
		sess.LoadFile(path)
		if *failed {
			os.Exit(1)
		}
		doc, _ := sess.Current()
		sess.ConvertToUTF8(doc.Content)
		if *failed {
			os.Exit(1)
		}
	}
}

func cmdDetect(args []string) {
	fs := flag.NewFlagSet("detect", flag.ExitOnError)
	fs.Usage = func() { helpTopic("detect") }
	_ = fs.Parse(args)

	if fs.NArg() == 0 {
		fatal(fmt.Errorf("no input files"))
	}

	code := 0
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "texttools:", err)
			code = 1
			continue
		}
		fmt.Printf("%s: %s\n", path, encodings.Detect(data))
	}
	if code != 0 {
		os.Exit(code)
	}
}

/* ---------- helpers ---------- */

func newSession(logger *log.Logger, prefs settings.Settings) *session.Session {
	gw := fileio.New(logger.WithPrefix("fileio"))
	sess := session.New(gw, logger.WithPrefix("session"))
	sess.SetMergeSeparator(prefs.Merge.Separator)
	return sess
}

// headlessSession wires a session whose events print to stderr, keeping
// stdout free for document content. The returned flag flips on the first
// Failed event.
func headlessSession(verbose bool) (*session.Session, *bool) {
	logger := logging.Nop()
	if verbose {
		logger = logging.New(os.Stderr, "debug")
	}
	gw := fileio.New(logger.WithPrefix("fileio"))
	sess := session.New(gw, logger.WithPrefix("session"))
	failed := new(bool)
	sess.Subscribe(func(ev session.Event) {
		switch ev := ev.(type) {
		case session.Failed:
			fmt.Fprintln(os.Stderr, "texttools:", ev.Message)
			*failed = true
		case session.Status:
			fmt.Fprintln(os.Stderr, ev.Message)
		}
	})
	return sess, failed
}

// printDocument writes content to stdout with a final newline so shell
// output stays readable.
func printDocument(content string) {
	fmt.Print(content)
	if !strings.HasSuffix(content, "\n") {
		fmt.Println()
	}
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "texttools:", err)
	os.Exit(1)
}
