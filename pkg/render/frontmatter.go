package render

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

var fence = []byte("---")

// splitFrontMatter separates an optional leading YAML block delimited by
// "---" lines from the template body.
func splitFrontMatter(content []byte) (map[string]any, []byte, error) {
	if !bytes.HasPrefix(content, fence) {
		return nil, content, nil
	}

	rest := bytes.TrimLeft(content[len(fence):], "\r\n")
	end := bytes.Index(rest, fence)
	if end < 0 {
		return nil, nil, fmt.Errorf("%w: closing delimiter not found", ErrFrontMatter)
	}

	head, body := rest[:end], rest[end+len(fence):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	var meta map[string]any
	if len(bytes.TrimSpace(head)) > 0 {
		if err := yaml.Unmarshal(head, &meta); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrFrontMatter, err)
		}
	}
	return meta, body, nil
}
