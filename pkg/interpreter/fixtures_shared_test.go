package interpreter

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"mlang/interpreter-go/pkg/driver"
)

type fixtureManifest struct {
	Description string `yaml:"description"`
	Entry       string `yaml:"entry"`
	Options     struct {
		MaxCallDepth    int  `yaml:"max_call_depth"`
		SilentRedeclare bool `yaml:"silent_redeclare"`
	} `yaml:"options"`
	Expect struct {
		Stdout *string `yaml:"stdout"`
		Result *struct {
			Kind  string `yaml:"kind"`
			Value string `yaml:"value"`
		} `yaml:"result"`
		Error    string   `yaml:"error"`
		Warnings []string `yaml:"warnings"`
	} `yaml:"expect"`
}

func readManifest(t testingT, dir string) fixtureManifest {
	t.Helper()
	manifestPath := filepath.Join(dir, "manifest.yml")
	file, err := os.Open(manifestPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fixtureManifest{}
		}
		t.Fatalf("read manifest %s: %v", manifestPath, err)
	}
	defer file.Close()
	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	var manifest fixtureManifest
	if err := dec.Decode(&manifest); err != nil {
		t.Fatalf("parse manifest %s: %v", manifestPath, err)
	}
	return manifest
}

func readProgram(t testingT, dir string, manifest fixtureManifest) *driver.Program {
	t.Helper()
	entry := manifest.Entry
	if entry == "" {
		entry = "program.yml"
	}
	program, err := driver.LoadProgram(filepath.Join(dir, entry))
	if err != nil {
		t.Fatalf("load fixture program: %v", err)
	}
	return program
}

// fixtureDirs lists fixture directories under root that hold a manifest.
func fixtureDirs(t testingT, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		t.Fatalf("read dir %s: %v", root, err)
	}
	var dirs []string
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		if _, err := os.Stat(filepath.Join(dir, "manifest.yml")); err == nil {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
