package main

import (
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/definition"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nLint form definition files (json or yaml). Directories are walked.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"examples/definitions"}
	}

	files, err := collect(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lint: %v\n", err)
		os.Exit(1)
	}

	var (
		violations []violation
		titles     = make(map[string]string)
	)
	for _, path := range files {
		form, linted, err := lintFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
		if prev, ok := titles[form.Title]; ok {
			violations = append(violations, violation{
				file:     path,
				location: "title",
				message:  fmt.Sprintf("title %q already used by %s", form.Title, prev),
			})
			continue
		}
		titles[form.Title] = path
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].location == violations[j].location {
					return violations[i].message < violations[j].message
				}
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

func collect(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if entry.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(p)) {
			case ".json", ".yaml", ".yml":
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

func lintFile(path string) (definition.Form, []violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return definition.Form{}, nil, fmt.Errorf("read file: %w", err)
	}

	form, err := definition.Parse(raw, path, definition.WithLenientTypes())
	if err != nil {
		return definition.Form{}, nil, fmt.Errorf("parse definition: %w", err)
	}

	var result []violation
	if len(form.Fields) == 0 {
		result = append(result, violation{file: path, location: "fields", message: "form has no fields"})
	}
	for idx, field := range form.Fields {
		location := fmt.Sprintf("fields[%d] %s", idx, field.ID)
		for _, msg := range lintField(field) {
			result = append(result, violation{file: path, location: location, message: msg})
		}
	}
	return form, result, nil
}

func lintField(field model.FieldDescriptor) []string {
	if !field.Type.Valid() {
		return []string{fmt.Sprintf("unknown field type %q", field.Type)}
	}

	var result []string
	if strings.TrimSpace(field.Label) == "" {
		result = append(result, "label is empty")
	}
	if field.Type.HasOptions() && len(field.Options) == 0 {
		result = append(result, fmt.Sprintf("%s field has no options", field.Type))
	}
	if !field.Type.HasOptions() && len(field.Options) > 0 {
		result = append(result, fmt.Sprintf("options are ignored for %s fields", field.Type))
	}

	rules := field.Validation
	if field.Type.TextLike() {
		if rules.MaxLength > 0 && rules.MinLength > rules.MaxLength {
			result = append(result, fmt.Sprintf("minLength %d exceeds maxLength %d", rules.MinLength, rules.MaxLength))
		}
		return result
	}
	if rules.MinLength > 0 || rules.MaxLength > 0 {
		result = append(result, fmt.Sprintf("length rules are ignored for %s fields", field.Type))
	}
	if rules.Pattern != model.PatternNone {
		result = append(result, fmt.Sprintf("pattern %q is ignored for %s fields", rules.Pattern, field.Type))
	}
	return result
}
