package mailer

import (
	"bytes"
	"fmt"
)

var frontmatterDelimiter = []byte("---")

// splitFrontmatter separates a leading YAML block delimited by "---" lines
// from the body. Content without a leading delimiter is all body.
func splitFrontmatter(content []byte) (meta, body []byte, err error) {
	if !bytes.HasPrefix(content, frontmatterDelimiter) {
		return nil, content, nil
	}

	rest := bytes.TrimPrefix(content, frontmatterDelimiter)
	rest = bytes.TrimLeft(rest, "\n\r")
	if len(rest) == 0 {
		return nil, nil, fmt.Errorf("%w: no content after opening delimiter", ErrInvalidFrontmatter)
	}

	end := bytes.Index(rest, frontmatterDelimiter)
	if end == -1 {
		return nil, nil, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	meta = rest[:end]
	start := end + len(frontmatterDelimiter)
	switch {
	case bytes.HasPrefix(rest[start:], []byte("\r\n")):
		start += 2
	case bytes.HasPrefix(rest[start:], []byte("\n")):
		start++
	}

	return meta, rest[start:], nil
}
