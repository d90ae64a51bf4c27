package system

import (
	"bufio"
	"io"
	"strings"
)

// readLines collects every line of r until end of stream. Line terminators ("\n"
// or "\r\n") are dropped; a final line without a terminator is kept. Any error
// other than io.EOF is returned with the lines read so far.
func readLines(r io.Reader) ([]string, error) {
	br := bufio.NewReader(r)
	var lines []string
	for {
		line, err := br.ReadString('\n')
		if err == nil {
			lines = append(lines, trimEOL(line))
			continue
		}
		if err == io.EOF {
			if line != "" {
				lines = append(lines, trimEOL(line))
			}
			return lines, nil
		}
		return lines, err
	}
}

func trimEOL(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
