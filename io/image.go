package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// ReadImage reads a program image in text form: one 16 digit binary word
// per line, MSB first. Underscores and blanks inside a word are ignored, as
// is anything after a ';' or '#'.
func ReadImage(input io.Reader) (data []uint16, err error) {
	scanner := bufio.NewScanner(input)

	var lineno int
	for scanner.Scan() {
		lineno++
		line := scanner.Text()

		if n := strings.IndexAny(line, ";#"); n >= 0 {
			line = line[:n]
		}

		line = strings.Map(func(r rune) rune {
			if r == '_' || unicode.IsSpace(r) {
				return -1
			}
			return r
		}, line)

		if len(line) == 0 {
			continue
		}

		if len(line) != 16 {
			err = errors.Wrapf(ErrImageWord(line), "image line %d", lineno)
			return
		}

		var value uint64
		value, err = strconv.ParseUint(line, 2, 16)
		if err != nil {
			err = errors.Wrapf(ErrImageWord(line), "image line %d", lineno)
			return
		}

		data = append(data, uint16(value))
	}

	if scanner.Err() != nil {
		err = errors.Wrap(scanner.Err(), "image")
	}

	return
}

// WriteImage writes a program image in the form read by ReadImage, with
// each word's address as a comment.
func WriteImage(output io.Writer, data []uint16) (err error) {
	for address, value := range data {
		_, err = fmt.Fprintf(output, "%016b ; %02d\n", value, address)
		if err != nil {
			err = errors.Wrapf(err, "image address %d", address)
			return
		}
	}

	return
}
