// Command vtreplay drives a vtcore.Terminal from either a recorded byte
// stream or a freshly spawned command's pty output, then prints the
// resulting screen. It exists to exercise the core library end-to-end; it
// holds no terminal-emulation logic of its own.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"github.com/spf13/cobra"

	"github.com/fenwick-labs/vtcore"
)

var (
	rows       int
	cols       int
	scrollback int
)

func main() {
	root := &cobra.Command{
		Use:   "vtreplay [command] [args...]",
		Short: "Feed a command's output through vtcore and print the resulting screen",
		Args:  cobra.ArbitraryArgs,
		RunE:  run,
	}

	flags := root.Flags()
	flags.IntVar(&rows, "rows", 24, "terminal rows")
	flags.IntVar(&cols, "cols", 80, "terminal columns")
	flags.IntVar(&scrollback, "scrollback", 1000, "scrollback line capacity")
	flags.SortFlags = false

	if err := root.Execute(); err != nil {
		log.Fatalf("vtreplay: %v", err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	if scrollback < 0 {
		return fmt.Errorf("--scrollback must not be negative")
	}

	term := vtcore.New(
		vtcore.WithSize(rows, cols),
		vtcore.WithScrollback(vtcore.NewMemoryScrollback(scrollback)),
	)

	var source io.Reader
	if len(args) == 0 {
		source = os.Stdin
	} else {
		child := exec.Command(args[0], args[1:]...)
		ptmx, err := pty.Start(child)
		if err != nil {
			return fmt.Errorf("spawning %q: %w", args[0], err)
		}
		defer ptmx.Close()
		source = ptmx
	}

	buf := make([]byte, 4096)
	for {
		n, err := source.Read(buf)
		if n > 0 {
			if _, werr := term.Write(buf[:n]); werr != nil {
				return fmt.Errorf("writing to terminal: %w", werr)
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}

	fmt.Print(term.String())
	row, col := term.CursorPos()
	fmt.Fprintf(cmd.OutOrStdout(), "\ncursor: row=%d col=%d\n", row, col)
	return nil
}
