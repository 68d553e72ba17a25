package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"
)

// ManifestFileName is the project manifest looked up by FindManifest.
const ManifestFileName = "mlang.yml"

// LanguageVersion is the language revision implemented by this interpreter.
// Manifests may require a minimum revision through `requires`.
const LanguageVersion = "v1.0.0"

var ErrManifestNotFound = errors.New("mlang.yml not found")

// Manifest represents the parsed contents of mlang.yml.
type Manifest struct {
	Path        string
	Name        string
	Version     string
	Requires    string
	Entry       string
	Programs    []string
	Interpreter InterpreterSettings
}

// RedeclarationPolicy controls how rebinding a name in the same scope is
// reported.
type RedeclarationPolicy string

const (
	RedeclarationWarn   RedeclarationPolicy = "warn"
	RedeclarationSilent RedeclarationPolicy = "silent"
)

// IsValid reports whether the policy is recognised.
func (p RedeclarationPolicy) IsValid() bool {
	switch p {
	case RedeclarationWarn, RedeclarationSilent:
		return true
	default:
		return false
	}
}

// InterpreterSettings are evaluation options carried by the manifest.
type InterpreterSettings struct {
	MaxCallDepth  int
	Redeclaration RedeclarationPolicy
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses mlang.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from dir towards the filesystem root looking for
// mlang.yml.
func FindManifest(dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("manifest: resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(current, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("manifest: stat %s: %w", candidate, err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrManifestNotFound
		}
		current = parent
	}
}

// ProgramPaths returns the manifest's programs (or its entry when no list is
// given) resolved against the manifest's directory.
func (m *Manifest) ProgramPaths() []string {
	if m == nil {
		return nil
	}
	names := m.Programs
	if len(names) == 0 && m.Entry != "" {
		names = []string{m.Entry}
	}
	base := filepath.Dir(m.Path)
	out := make([]string, 0, len(names))
	for _, name := range names {
		if filepath.IsAbs(name) {
			out = append(out, name)
			continue
		}
		out = append(out, filepath.Join(base, name))
	}
	return out
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Version != "" && !semver.IsValid(canonicalVersion(m.Version)) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("invalid version %q", m.Version))
	}
	if m.Requires != "" {
		required := canonicalVersion(m.Requires)
		switch {
		case !semver.IsValid(required):
			errs.Issues = append(errs.Issues, fmt.Sprintf("invalid requires %q", m.Requires))
		case semver.Compare(required, LanguageVersion) > 0:
			errs.Issues = append(errs.Issues, fmt.Sprintf("requires language %s but this interpreter implements %s", required, LanguageVersion))
		case semver.Major(required) != semver.Major(LanguageVersion):
			errs.Issues = append(errs.Issues, fmt.Sprintf("requires language %s which is incompatible with %s", required, LanguageVersion))
		}
	}
	if m.Entry == "" && len(m.Programs) == 0 {
		errs.Issues = append(errs.Issues, "entry or programs must be provided")
	}
	for i, name := range append(append([]string{}, m.Entry), m.Programs...) {
		if name == "" {
			continue
		}
		if _, err := FormatForPath(name); err != nil {
			label := "entry"
			if i > 0 {
				label = fmt.Sprintf("programs[%d]", i-1)
			}
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s %q must be a .yml, .yaml or .json file", label, name))
		}
	}
	if m.Interpreter.MaxCallDepth < 0 {
		errs.Issues = append(errs.Issues, "interpreter.max_call_depth must not be negative")
	}
	if !m.Interpreter.Redeclaration.IsValid() {
		errs.Issues = append(errs.Issues, fmt.Sprintf("interpreter.redeclaration has unsupported value %q", m.Interpreter.Redeclaration))
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// canonicalVersion accepts versions with or without the leading "v".
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v != "" && !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

type manifestFile struct {
	Name        string          `yaml:"name"`
	Version     string          `yaml:"version"`
	Requires    string          `yaml:"requires"`
	Entry       string          `yaml:"entry"`
	Programs    stringList      `yaml:"programs"`
	Interpreter interpreterYAML `yaml:"interpreter"`
}

type interpreterYAML struct {
	MaxCallDepth  int    `yaml:"max_call_depth"`
	Redeclaration string `yaml:"redeclaration"`
}

type stringList []string

func (mf manifestFile) toManifest(path string) *Manifest {
	policy := RedeclarationPolicy(strings.ToLower(strings.TrimSpace(mf.Interpreter.Redeclaration)))
	if policy == "" {
		policy = RedeclarationWarn
	}
	return &Manifest{
		Path:     path,
		Name:     strings.TrimSpace(mf.Name),
		Version:  strings.TrimSpace(mf.Version),
		Requires: strings.TrimSpace(mf.Requires),
		Entry:    strings.TrimSpace(mf.Entry),
		Programs: mf.Programs.Clone(),
		Interpreter: InterpreterSettings{
			MaxCallDepth:  mf.Interpreter.MaxCallDepth,
			Redeclaration: policy,
		},
	}
}

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, 0, len(l))
	for _, item := range l {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			str = strings.TrimSpace(str)
			if str == "" {
				continue
			}
			items = append(items, str)
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}
