package topicfile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrEmptyTopic is returned for an entry with no text.
var ErrEmptyTopic = errors.New("topic text is empty")

// File is a parsed topics file.
type File struct {
	// EnableImage overrides the workspace toggle when set.
	EnableImage *bool   `yaml:"enable_image"`
	Topics      []Entry `yaml:"topics"`

	// Dir is the directory relative image paths are resolved against.
	Dir string `yaml:"-"`
}

// Entry is one topic of a topics file.
type Entry struct {
	Text  string `yaml:"text"`
	Image string `yaml:"image,omitempty"`
}

// UnmarshalYAML accepts either a bare string or a {text, image} mapping.
func (e *Entry) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Text = node.Value
		return nil
	}
	type plain Entry
	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}
	*e = Entry(p)
	return nil
}

// ImageURL reports whether the image is a remote URL rather than a path.
func (e Entry) ImageURL() bool {
	u, err := url.Parse(e.Image)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// ImagePath returns the image path resolved against dir.
func (e Entry) ImagePath(dir string) string {
	if e.Image == "" || e.ImageURL() || filepath.IsAbs(e.Image) || dir == "" {
		return e.Image
	}
	return filepath.Join(dir, e.Image)
}

// Load reads and parses a topics file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading topics file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.Dir = filepath.Dir(path)
	return f, nil
}

// Parse decodes topics file content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	for i := range f.Topics {
		f.Topics[i].Text = strings.TrimSpace(f.Topics[i].Text)
		f.Topics[i].Image = strings.TrimSpace(f.Topics[i].Image)
		if f.Topics[i].Text == "" {
			return nil, fmt.Errorf("topic %d: %w", i+1, ErrEmptyTopic)
		}
	}
	return &f, nil
}
