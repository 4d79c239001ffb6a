package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quantmind-br/siteassets-go/internal/loader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestInitConfig(t *testing.T) {
	for _, file := range []string{"", "/test/config.yaml"} {
		cfgFile = file
		assert.NotPanics(t, initConfig)
	}
	cfgFile = ""
}

func TestValidateManifest(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		file     string
		content  string
		wantErr  bool
		contains []string
	}{
		{
			name: "valid json",
			file: "site-assets.json",
			content: `{"assets":[
				{"path":"data/news.json","type":"json","handler":"./handlers/snapshot.js"},
				{"path":"images/gallery","type":"directory","handler":"gallery","contains":{"allowedExtensions":[".jpg"]}}
			]}`,
			contains: []string{"2 assets", "directory=1", "json=1", "2 with handlers", "OK"},
		},
		{
			name:     "valid yaml",
			file:     "assets.yaml",
			content:  "assets:\n  - path: a.json\n    type: json\n",
			contains: []string{"1 assets", "OK"},
		},
		{
			name:     "unknown handler warns",
			file:     "custom.json",
			content:  `{"assets":[{"path":"a.json","type":"json","handler":"./handlers/custom.js"}]}`,
			contains: []string{`handler "./handlers/custom.js" is not built in`, "OK"},
		},
		{
			name:     "bad type",
			file:     "bad-type.json",
			content:  `{"assets":[{"path":"a.json","type":"video"}]}`,
			wantErr:  true,
			contains: []string{"schema: /assets/0/type", "assets[0].type"},
		},
		{
			name:    "combo without parts",
			file:    "bad-combo.json",
			content: `{"assets":[{"path":"gigs","type":"directory","contains":{"type":"combo"}}]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)

			var out bytes.Buffer
			err := validateManifest(&out, path)
			if tt.wantErr {
				assert.ErrorIs(t, err, errInvalidManifest)
				assert.NotContains(t, out.String(), "OK\n")
			} else {
				assert.NoError(t, err)
			}
			for _, want := range tt.contains {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func TestValidateManifest_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := validateManifest(&out, filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, errInvalidManifest)
}

func TestHandlersCommand(t *testing.T) {
	var out bytes.Buffer
	handlersCmd.SetOut(&out)
	handlersCmd.Run(handlersCmd, nil)

	names := strings.Fields(out.String())
	assert.Equal(t, []string{"events", "gallery", "gigs", "markdown", "snapshot"}, names)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)

	assert.True(t, strings.HasPrefix(out.String(), "siteassets "))
}

func TestPrintSummary(t *testing.T) {
	report := loader.NewReport("site-assets.json")

	var out bytes.Buffer
	printSummary(&out, report)
	assert.Equal(t, "Loaded 0 assets (0 skipped, 0 failed), 0 handler errors in 0s\n", out.String())
}

func TestRootCommand_LocalSite(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	site := t.TempDir()
	writeFile(t, site, "site-assets.json", `{"assets":[{"path":"data.json","type":"json","handler":"snapshot"}]}`)
	writeFile(t, site, "data.json", `{"hello":"world"}`)
	out := filepath.Join(t.TempDir(), "out")

	var stdout bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs([]string{site, "-o", out, "-v"})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, stdout.String(), "Loaded 1 assets (0 skipped, 0 failed), 0 handler errors")
	assert.FileExists(t, filepath.Join(out, "data.json.json"))
	assert.FileExists(t, filepath.Join(out, "report.json"))
}
