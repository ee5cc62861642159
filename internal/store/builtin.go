package store

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/roly-sh/roly/internal/role"
)

//go:embed builtin/top_level/*.md builtin/sub_roles/*.md
var builtinRoles embed.FS

func builtinPath(kind role.Kind, slug string) string {
	return "builtin:" + path.Join(kindDir(kind), slugFilename(slug))
}

func builtinEntry(kind role.Kind, slug string) string {
	return path.Join("builtin", kindDir(kind), slugFilename(slug))
}

func builtinExists(kind role.Kind, slug string) bool {
	info, err := fs.Stat(builtinRoles, builtinEntry(kind, slug))
	return err == nil && !info.IsDir()
}

func loadBuiltin(kind role.Kind, slug string) (role.Document, bool, error) {
	data, err := builtinRoles.ReadFile(builtinEntry(kind, slug))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return role.Document{}, false, nil
		}
		return role.Document{}, false, fmt.Errorf("store: read builtin role %s: %w", slug, err)
	}
	doc, err := role.ParseDocument(data, role.ScopeBuiltin, builtinPath(kind, slug))
	if err != nil {
		return role.Document{}, false, err
	}
	return doc, true, nil
}

func listBuiltin(kind role.Kind) ([]role.Document, error) {
	entries, err := builtinRoles.ReadDir(path.Join("builtin", kindDir(kind)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("store: read builtin roles: %w", err)
	}
	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".md") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var docs []role.Document
	for _, name := range names {
		slug := strings.TrimSuffix(name, ".md")
		doc, ok, err := loadBuiltin(kind, slug)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}
