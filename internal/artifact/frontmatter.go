package artifact

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates a document artifact that does not open
	// with a `---` fence.
	ErrMissingFrontMatter = errors.New("artifact: missing frontmatter")
	// ErrMalformedFrontMatter indicates an unterminated header or one without
	// a usable `segmenter:` block.
	ErrMalformedFrontMatter = errors.New("artifact: malformed frontmatter")
)

// frontMatterKey holds the metadata block inside the document header; other
// header keys are ignored so notebooks can annotate the file.
const frontMatterKey = "segmenter"

var (
	openFence  = []byte("---\n")
	closeFence = []byte("\n---\n")
)

// ParseFrontMatter splits a document artifact into its metadata and the YAML
// body holding the fitted parameters.
func ParseFrontMatter(content []byte) (Metadata, []byte, error) {
	text := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	header, ok := bytes.CutPrefix(text, openFence)
	if !ok {
		return Metadata{}, nil, ErrMissingFrontMatter
	}
	block, body, ok := bytes.Cut(header, closeFence)
	if !ok {
		return Metadata{}, nil, ErrMalformedFrontMatter
	}
	var fields map[string]any
	if err := yaml.Unmarshal(block, &fields); err != nil {
		return Metadata{}, nil, fmt.Errorf("%w: %v", ErrMalformedFrontMatter, err)
	}
	values, ok := fields[frontMatterKey].(map[string]any)
	if !ok {
		return Metadata{}, nil, fmt.Errorf("%w: no %s block", ErrMalformedFrontMatter, frontMatterKey)
	}
	meta, err := metadataFromMap(values)
	if err != nil {
		return Metadata{}, nil, fmt.Errorf("%w: %w", ErrMalformedFrontMatter, err)
	}
	return meta, body, nil
}

// WriteFrontMatter renders a document artifact: the metadata header, a blank
// line, then body.
func WriteFrontMatter(meta Metadata, body []byte) ([]byte, error) {
	if !knownArtifact(meta.ArtifactID) {
		return nil, fmt.Errorf("%w %q", ErrUnknownArtifact, meta.ArtifactID)
	}
	header, err := yaml.Marshal(map[string]any{frontMatterKey: metadataToMap(meta)})
	if err != nil {
		return nil, fmt.Errorf("artifact: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.Write(openFence)
	buf.Write(bytes.TrimRight(header, "\n"))
	buf.Write(closeFence)
	buf.WriteByte('\n')
	buf.Write(body)
	return buf.Bytes(), nil
}
