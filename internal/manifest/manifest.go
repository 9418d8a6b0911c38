package manifest

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

var ErrInvalidManifest = errors.New("invalid manifest")

var (
	modulePattern  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)
	packagePattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9._-]*[A-Za-z0-9])?$`)
	versionPattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*([A-Za-z0-9.+!-]*)$`)
)

// IsModuleName reports whether name is a dotted Python identifier.
func IsModuleName(name string) bool {
	return modulePattern.MatchString(name)
}

// Requirement is a library the target program imports.
type Requirement struct {
	Module     string `toml:"module"`
	Package    string `toml:"package"`
	MinVersion string `toml:"min_version"`
	// Python source executed as a diagnostic probe after a failed launch
	Diagnostic string `toml:"diagnostic"`
}

// PackageName returns the name handed to the installer.
func (r Requirement) PackageName() string {
	if r.Package != "" {
		return r.Package
	}
	return r.Module
}

// InstallSpec returns the installer argument, carrying the minimum version when one is declared.
func (r Requirement) InstallSpec() string {
	if r.MinVersion != "" {
		return r.PackageName() + ">=" + r.MinVersion
	}
	return r.PackageName()
}

type RuntimeRequirement struct {
	Name       string `toml:"name"`
	MinVersion string `toml:"min_version"`
}

func (r RuntimeRequirement) String() string {
	return r.Name + " " + r.MinVersion
}

type Manifest struct {
	Title        string             `toml:"title"`
	Program      string             `toml:"program"`
	Runtime      RuntimeRequirement `toml:"runtime"`
	Requirements []Requirement      `toml:"requirement"`
}

// Diagnostics returns the diagnostic probes declared by the requirements, in order.
func (m *Manifest) Diagnostics() (diagnostics []Requirement) {
	for _, requirement := range m.Requirements {
		if requirement.Diagnostic != "" {
			diagnostics = append(diagnostics, requirement)
		}
	}
	return
}

// PackageNames lists every installer name, in order.
func (m *Manifest) PackageNames() (names []string) {
	for _, requirement := range m.Requirements {
		names = append(names, requirement.PackageName())
	}
	return
}

func (m *Manifest) Validate() error {
	if m.Program == "" {
		return fmt.Errorf("%w: no target program", ErrInvalidManifest)
	}
	if m.Runtime.Name == "" {
		return fmt.Errorf("%w: no runtime name", ErrInvalidManifest)
	}
	seen := make(map[string]bool, len(m.Requirements))
	diagnostics := 0
	for index, requirement := range m.Requirements {
		module := requirement.Module
		if !IsModuleName(module) {
			return fmt.Errorf("%w: requirement %d has an invalid module name %q", ErrInvalidManifest, index, module)
		}
		if seen[module] {
			return fmt.Errorf("%w: module %s declared twice", ErrInvalidManifest, module)
		}
		seen[module] = true
		if requirement.Package != "" && !packagePattern.MatchString(requirement.Package) {
			return fmt.Errorf("%w: invalid package name %q for %s", ErrInvalidManifest, requirement.Package, module)
		}
		if requirement.MinVersion != "" && !versionPattern.MatchString(requirement.MinVersion) {
			return fmt.Errorf("%w: invalid minimum version %q for %s", ErrInvalidManifest, requirement.MinVersion, module)
		}
		if requirement.Diagnostic != "" {
			diagnostics++
		}
	}
	// The GUI library diagnostic is the second probe after a failed launch
	if len(m.Requirements) > 0 && diagnostics != 1 {
		return fmt.Errorf("%w: %d requirements declare a diagnostic, expected exactly one", ErrInvalidManifest, diagnostics)
	}
	return nil
}

// Default returns the requirement table of the UDS terminal.
func Default() *Manifest {
	return &Manifest{
		Title:   "UDS Translation Terminal",
		Program: "app.py",
		Runtime: RuntimeRequirement{Name: "Python", MinVersion: "3.8"},
		Requirements: []Requirement{
			{
				Module:     "PyQt6",
				MinVersion: "6.4.0",
				Diagnostic: "from PyQt6.QtWidgets import QApplication; print(QApplication)",
			},
			{Module: "lxml"},
			{Module: "pandas"},
			{Module: "requests"},
			{Module: "openpyxl"},
		},
	}
}

// Load reads a TOML manifest. Fields left out keep the default values, the
// requirement list is replaced as a whole when the file declares one.
func Load(manifestPath string) (manifest *Manifest, err error) {
	manifest = Default()
	if manifestPath == "" {
		return
	}

	var data []byte
	if data, err = os.ReadFile(manifestPath); err != nil {
		return nil, err
	}
	loaded := Manifest{}
	var metadata toml.MetaData
	if metadata, err = toml.Decode(string(data), &loaded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if undecoded := metadata.Undecoded(); len(undecoded) > 0 {
		logrus.Warnf("Ignoring unknown manifest keys %v", undecoded)
	}

	if metadata.IsDefined("title") {
		manifest.Title = loaded.Title
	}
	if metadata.IsDefined("program") {
		manifest.Program = loaded.Program
	}
	if metadata.IsDefined("runtime", "name") {
		manifest.Runtime.Name = loaded.Runtime.Name
	}
	if metadata.IsDefined("runtime", "min_version") {
		manifest.Runtime.MinVersion = loaded.Runtime.MinVersion
	}
	if metadata.IsDefined("requirement") {
		manifest.Requirements = loaded.Requirements
	}
	if err = manifest.Validate(); err != nil {
		return nil, err
	}
	logrus.Debugf("Loaded manifest %s with %d requirements", manifestPath, len(manifest.Requirements))
	return
}
