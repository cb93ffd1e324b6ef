package completion_helper

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
)

// DefaultFlagComplete prints the flags of the current command.
func DefaultFlagComplete(_ context.Context, cmd *cli.Command) {
	printFlags(writer(cmd), cmd)
}

// AnalysisFileComplete prints the flags and the analysis files (JSON or
// YAML) found in the working directory.
func AnalysisFileComplete(_ context.Context, cmd *cli.Command) {
	w := writer(cmd)
	printFlags(w, cmd)

	entries, err := os.ReadDir(".")
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			_, _ = fmt.Fprintln(w, entry.Name())
		}
	}
}

func printFlags(w io.Writer, cmd *cli.Command) {
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			if len(name) == 1 {
				_, _ = fmt.Fprintln(w, "-"+name)
			} else {
				_, _ = fmt.Fprintln(w, "--"+name)
			}
		}
	}
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
