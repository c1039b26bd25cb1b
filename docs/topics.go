// Package docs embeds the fin user documentation, one markdown file per
// topic.
package docs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"
)

const (
	// Index is the topic listing all the others, shown when none is asked.
	Index = "readme"
	// All expands to every topic but the index.
	All = "*"
)

// ErrUnknownTopic is returned when reading a topic with no documentation.
var ErrUnknownTopic = errors.New("unknown topic")

//go:embed *.md
var files embed.FS

// Topics returns the sorted topic names, without the index.
func Topics() []string {
	paths, _ := fs.Glob(files, "*.md")
	var topics []string
	for _, p := range paths {
		if name := strings.TrimSuffix(p, ".md"); name != Index {
			topics = append(topics, name)
		}
	}
	slices.Sort(topics)
	return topics
}

// Names returns every argument 'fin topic' accepts.
func Names() []string {
	return append([]string{Index}, append(Topics(), All)...)
}

// Read returns the markdown of the given topics, one after the other. With
// no topic it reads the index.
func Read(topics ...string) (string, error) {
	if len(topics) == 0 {
		topics = []string{Index}
	}
	var b strings.Builder
	for _, t := range topics {
		names := []string{t}
		if t == All {
			names = Topics()
		}
		for _, name := range names {
			content, err := files.ReadFile(name + ".md")
			if err != nil {
				return "", fmt.Errorf("%w %q, try one of: %s", ErrUnknownTopic, t, strings.Join(Topics(), ", "))
			}
			b.Write(content)
			b.WriteString("\n")
		}
	}
	return b.String(), nil
}
