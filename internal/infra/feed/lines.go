// Package feed supplies command lines to the sequencer: batch files and
// stdin through ReadLines, remote clients through WSWorker.
package feed

import (
	"bufio"
	"context"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// ReadLines calls fn with every non-blank line of r, in order.
// Trailing carriage returns are stripped. It stops early when ctx is done.
func ReadLines(ctx context.Context, r io.Reader, fn func(line string)) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fn(line)
	}
	return sc.Err()
}
