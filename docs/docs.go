// Package docs bundles the long-form altscan guides.
package docs

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const indexPath = "guide/index.yaml"

// ErrUnknownTopic is returned by Read for topics not in the index.
var ErrUnknownTopic = errors.New("unknown docs topic")

// Topic is one bundled guide.
type Topic struct {
	ID    string `yaml:"-" json:"id"`
	Title string `yaml:"title" json:"title"`
	Path  string `yaml:"path" json:"path"`
	Order int    `yaml:"order" json:"-"`
}

// Topics returns the guides listed in the index, in display order.
func Topics() ([]Topic, error) {
	return topicsFrom(FS)
}

// Read returns the Markdown of the topic with the given id.
func Read(id string) (Topic, string, error) {
	return readFrom(FS, id)
}

func topicsFrom(fsys fs.FS) ([]Topic, error) {
	data, err := fs.ReadFile(fsys, indexPath)
	if err != nil {
		return nil, fmt.Errorf("read docs index: %w", err)
	}
	raw := make(map[string]Topic)
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse docs index: %w", err)
	}

	topics := make([]Topic, 0, len(raw))
	for id, t := range raw {
		t.ID = id
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Order != topics[j].Order {
			return topics[i].Order < topics[j].Order
		}
		return topics[i].ID < topics[j].ID
	})
	return topics, nil
}

func readFrom(fsys fs.FS, id string) (Topic, string, error) {
	topics, err := topicsFrom(fsys)
	if err != nil {
		return Topic{}, "", err
	}
	id = strings.ToLower(strings.TrimSpace(id))
	for _, t := range topics {
		if t.ID != id {
			continue
		}
		content, err := fs.ReadFile(fsys, path.Join("guide", t.Path))
		if err != nil {
			return Topic{}, "", fmt.Errorf("read topic %s: %w", id, err)
		}
		return t, string(content), nil
	}
	return Topic{}, "", fmt.Errorf("%w: %q", ErrUnknownTopic, id)
}
