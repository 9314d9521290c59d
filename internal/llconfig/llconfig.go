// Package llconfig loads and validates ll1gen project files: a TOML
// document describing a grammar source file, its start symbol, the
// package/name to use when emitting Go parser source, and (optionally) the
// registry server/database settings the CLI should use when pushing or
// pulling a grammar from a running service.
//
// Grounded on server/config.go's FillDefaults/Validate pair and
// internal/tqw's use of github.com/BurntSushi/toml for on-disk
// configuration, adapted from a game-world manifest to a single grammar
// project file.
package llconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultFile is the project file name ll1gen looks for in the current
// directory when none is given on the command line.
const DefaultFile = "ll1gen.toml"

// Project is a parsed ll1gen project file.
type Project struct {
	Format string `toml:"format"`

	Grammar GrammarConfig `toml:"grammar"`
	Output  OutputConfig  `toml:"output"`
	Server  ServerConfig  `toml:"server"`
}

// GrammarConfig names the source grammar file and its start symbol.
type GrammarConfig struct {
	// File is the path, relative to the project file, to the grammar
	// source text to load.
	File string `toml:"file"`

	// Start is the name of the start non-terminal.
	Start string `toml:"start"`
}

// OutputConfig controls the emitted Go parser source.
type OutputConfig struct {
	// Package is the package name to emit the parser under.
	Package string `toml:"package"`

	// Name is a human-readable name for the parser, embedded in doc
	// comments and type names of the generated source.
	Name string `toml:"name"`

	// File is the path to write the generated source to. If empty, the
	// CLI writes to stdout.
	File string `toml:"file"`
}

// ServerConfig holds the registry service connection settings used by the
// CLI's push/pull subcommands. Entirely optional: a project that only ever
// emits locally doesn't need one.
type ServerConfig struct {
	// Address is the base URL of a running registry server, e.g.
	// "http://localhost:8080".
	Address string `toml:"address"`

	// Username and Password authenticate against the registry server.
	Username string `toml:"username"`
	Password string `toml:"password"`

	// GrammarName is the name the grammar is stored under on the server,
	// if different from Output.Name.
	GrammarName string `toml:"grammar_name"`
}

// Load reads and parses the project file at path.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read project file: %w", err)
	}

	var proj Project
	if err := toml.Unmarshal(data, &proj); err != nil {
		return Project{}, fmt.Errorf("parse project file: %w", err)
	}

	return proj.FillDefaults(), nil
}

// FillDefaults returns a copy of p with unset fields set to their defaults.
func (p Project) FillDefaults() Project {
	filled := p

	if filled.Output.Package == "" {
		filled.Output.Package = "parser"
	}
	if filled.Output.Name == "" {
		filled.Output.Name = "Grammar"
	}

	return filled
}

// Validate returns an error if p is missing required fields.
func (p Project) Validate() error {
	if strings.TrimSpace(p.Grammar.File) == "" {
		return fmt.Errorf("grammar.file: must be set to a path")
	}
	if strings.TrimSpace(p.Grammar.Start) == "" {
		return fmt.Errorf("grammar.start: must be set to a non-terminal name")
	}
	if p.Server.Address != "" {
		if p.Server.Username == "" {
			return fmt.Errorf("server.username: required when server.address is set")
		}
	}
	return nil
}
