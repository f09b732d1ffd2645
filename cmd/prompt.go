package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
)

var errNoRoot = errors.New("no screenshot folder given")

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// promptRoot asks for the screenshot folder on out and reads one line from in.
func promptRoot(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintln(out, "Enter the path of screenshot folder")
	fmt.Fprint(out, "> ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", errors.Wrap(err, "read screenshot folder")
	}

	root := strings.TrimSpace(line)
	// paths dragged into a terminal are often quoted
	root = strings.Trim(root, `"'`)
	if root == "" {
		return "", errNoRoot
	}

	return root, nil
}
