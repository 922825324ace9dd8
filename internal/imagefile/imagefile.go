// Package imagefile reads photograph dimensions without decoding pixel
// data. PNG, JPEG and WebP go through image.DecodeConfig; PPM (P3/P6)
// headers are parsed by hand since the standard library has no decoder
// for them.
package imagefile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"

	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

// ErrUnknownFormat indicates the file is not a supported image format.
var ErrUnknownFormat = errors.New("unknown image format")

// DecodeSize returns the pixel dimensions of the image at path.
func DecodeSize(path string) (width, height int, err error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	reader := bufio.NewReader(file)
	magic, err := reader.Peek(2)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}

	if bytes.Equal(magic, []byte("P3")) || bytes.Equal(magic, []byte("P6")) {
		return decodePPMSize(reader)
	}

	cfg, _, err := image.DecodeConfig(reader)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %s: %v", ErrUnknownFormat, path, err)
	}
	return cfg.Width, cfg.Height, nil
}

// decodePPMSize parses a PPM header: magic line, optional comment
// lines, then "width height".
func decodePPMSize(reader *bufio.Reader) (int, int, error) {
	if _, err := reader.ReadString('\n'); err != nil {
		return 0, 0, fmt.Errorf("truncated PPM header: %w", err)
	}

	line, err := reader.ReadString('\n')
	for err == nil && len(line) > 0 && line[0] == '#' {
		line, err = reader.ReadString('\n')
	}
	if err != nil {
		return 0, 0, fmt.Errorf("truncated PPM header: %w", err)
	}

	fields := bytes.Fields([]byte(line))
	if len(fields) < 2 {
		return 0, 0, errors.New("malformed PPM dimension line")
	}
	width, err := strconv.Atoi(string(fields[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed PPM width: %w", err)
	}
	height, err := strconv.Atoi(string(fields[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("malformed PPM height: %w", err)
	}
	return width, height, nil
}
