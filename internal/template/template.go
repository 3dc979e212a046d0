package template

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"text/template"
)

// Data contains values substituted into skeleton fragments
type Data struct {
	Domain string
}

// Section renders one target's deploy.json fragment
func Section(name string, data Data) (string, error) {
	content, err := skeletons.ReadFile("skeleton/" + name + ".tmpl")
	if err != nil {
		return "", fmt.Errorf("no skeleton for target: %s", name)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return "", fmt.Errorf("failed to parse skeleton %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render skeleton %s: %w", name, err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Skeleton assembles a complete deploy.json document from the fragments of
// the given targets, in the given order
func Skeleton(domain string, targets []string) (string, error) {
	data := Data{Domain: domain}

	sections := make([]string, 0, len(targets))
	for _, name := range targets {
		fragment, err := Section(name, data)
		if err != nil {
			return "", err
		}
		sections = append(sections, indent(fragment, "    "))
	}

	return "{\n" + strings.Join(sections, ",\n") + "\n}\n", nil
}

// Available returns all target names a skeleton ships for, sorted
func Available() []string {
	entries, err := skeletons.ReadDir("skeleton")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".tmpl"))
	}
	sort.Strings(names)
	return names
}

// indent prefixes every line of s
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
