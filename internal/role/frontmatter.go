package role

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("role: missing front matter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("role: malformed front matter")
)

// ParseDocument decodes a role file: a `---` fenced YAML front matter block
// followed by the free-text body. Parse failures are reported through the
// sentinel errors above so callers can distinguish a malformed file from a
// missing one.
func ParseDocument(content []byte, scope Scope, sourcePath string) (Document, error) {
	if len(content) == 0 {
		return Document{}, fmt.Errorf("%w: %s", ErrMissingFrontMatter, sourcePath)
	}
	normalized := normalizeNewlines(content)
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return Document{}, fmt.Errorf("%w: %s", ErrMissingFrontMatter, sourcePath)
	}
	rest := normalized[4:]
	var front, body []byte
	if idx := bytes.Index(rest, []byte("\n---\n")); idx >= 0 {
		front = rest[:idx]
		body = rest[idx+len("\n---\n"):]
	} else if bytes.HasSuffix(rest, []byte("\n---")) {
		// Closing fence at end of file with no trailing newline.
		front = rest[:len(rest)-len("\n---")]
	} else {
		return Document{}, fmt.Errorf("%w: missing closing fence: %s", ErrMalformedFrontMatter, sourcePath)
	}
	var envelope documentEnvelope
	if err := yaml.Unmarshal(front, &envelope); err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", ErrMalformedFrontMatter, sourcePath, err)
	}
	doc, err := envelope.toDocument(scope, sourcePath)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %s: %v", ErrMalformedFrontMatter, sourcePath, err)
	}
	doc.Body = string(bytes.TrimLeft(body, "\n"))
	return doc, nil
}

// writeDocument renders metadata + body with YAML fences.
func writeDocument(doc Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	envelope := documentEnvelope{}
	envelope.fromDocument(doc)
	data, err := yaml.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("role: encode front matter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.WriteString(doc.Body)
	return buf.Bytes(), nil
}

type documentEnvelope struct {
	Kind              string          `yaml:"kind"`
	Name              string          `yaml:"name"`
	Slug              string          `yaml:"slug"`
	Version           string          `yaml:"version"`
	DependsOnTopLevel string          `yaml:"depends_on_top_level,omitempty"`
	Output            *outputEnvelope `yaml:"output,omitempty"`
}

type outputEnvelope struct {
	FilenameTemplate string            `yaml:"filename_template,omitempty"`
	Sections         []sectionEnvelope `yaml:"sections,omitempty"`
}

type sectionEnvelope struct {
	Key               string   `yaml:"key"`
	Type              string   `yaml:"type"`
	Guidance          []string `yaml:"guidance,omitempty"`
	Fields            []string `yaml:"fields,omitempty"`
	ItemContributions []string `yaml:"item_contributions,omitempty"`
}

func (e documentEnvelope) toDocument(scope Scope, sourcePath string) (Document, error) {
	kind, err := ParseKind(e.Kind)
	if err != nil {
		return Document{}, err
	}
	doc := Document{
		Kind:              kind,
		Name:              trimOrEmpty(e.Name),
		Slug:              trimOrEmpty(e.Slug),
		Version:           trimOrEmpty(e.Version),
		DependsOnTopLevel: trimOrEmpty(e.DependsOnTopLevel),
		SourceScope:       scope,
		SourcePath:        sourcePath,
	}
	if e.Output != nil {
		doc.Output.FilenameTemplate = trimOrEmpty(e.Output.FilenameTemplate)
		for _, section := range e.Output.Sections {
			sectionType, err := ParseSectionType(section.Type)
			if err != nil {
				return Document{}, err
			}
			doc.Output.Sections = append(doc.Output.Sections, OutputSection{
				Key:               trimOrEmpty(section.Key),
				Type:              sectionType,
				Guidance:          append([]string(nil), section.Guidance...),
				Fields:            append([]string(nil), section.Fields...),
				ItemContributions: append([]string(nil), section.ItemContributions...),
			})
		}
	}
	if err := doc.Validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

func (e *documentEnvelope) fromDocument(doc Document) {
	e.Kind = string(doc.Kind)
	e.Name = doc.Name
	e.Slug = doc.Slug
	e.Version = doc.Version
	e.DependsOnTopLevel = doc.DependsOnTopLevel
	if doc.Output.FilenameTemplate == "" && len(doc.Output.Sections) == 0 {
		return
	}
	out := outputEnvelope{FilenameTemplate: doc.Output.FilenameTemplate}
	for _, section := range doc.Output.Sections {
		out.Sections = append(out.Sections, sectionEnvelope{
			Key:               section.Key,
			Type:              string(section.Type),
			Guidance:          append([]string(nil), section.Guidance...),
			Fields:            append([]string(nil), section.Fields...),
			ItemContributions: append([]string(nil), section.ItemContributions...),
		})
	}
	e.Output = &out
}

func trimOrEmpty(value string) string {
	return strings.TrimSpace(value)
}

func normalizeNewlines(content []byte) []byte {
	return bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
}
