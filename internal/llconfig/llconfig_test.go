package llconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_FillsDefaultsAndParsesFields(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "ll1gen.toml")
	contents := `
format = "1"

[grammar]
file = "arith.gr"
start = "Expr"

[output]
file = "arith_parser.go"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0660))

	proj, err := Load(path)
	assert.NoError(err)
	assert.Equal("arith.gr", proj.Grammar.File)
	assert.Equal("Expr", proj.Grammar.Start)
	assert.Equal("parser", proj.Output.Package)
	assert.Equal("Grammar", proj.Output.Name)
	assert.Equal("arith_parser.go", proj.Output.File)
}

func Test_Load_MissingFile(t *testing.T) {
	assert := assert.New(t)

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	assert.Error(err)
}

func Test_Load_MalformedTOML(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "ll1gen.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid toml"), 0660))

	_, err := Load(path)
	assert.Error(err)
}

func Test_Validate_RequiresGrammarFileAndStart(t *testing.T) {
	testCases := []struct {
		name string
		proj Project
	}{
		{name: "missing file", proj: Project{Grammar: GrammarConfig{Start: "Expr"}}},
		{name: "missing start", proj: Project{Grammar: GrammarConfig{File: "arith.gr"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert := assert.New(t)
			assert.Error(tc.proj.Validate())
		})
	}
}

func Test_Validate_RequiresServerUsernameWhenAddressSet(t *testing.T) {
	assert := assert.New(t)

	proj := Project{
		Grammar: GrammarConfig{File: "arith.gr", Start: "Expr"},
		Server:  ServerConfig{Address: "http://localhost:8080"},
	}
	assert.Error(proj.Validate())

	proj.Server.Username = "alice"
	assert.NoError(proj.Validate())
}

func Test_FillDefaults_DoesNotOverrideSetValues(t *testing.T) {
	assert := assert.New(t)

	proj := Project{Output: OutputConfig{Package: "mypkg", Name: "MyGrammar"}}
	filled := proj.FillDefaults()

	assert.Equal("mypkg", filled.Output.Package)
	assert.Equal("MyGrammar", filled.Output.Name)
}
