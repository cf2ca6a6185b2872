package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQualityCmds(t *testing.T) {
	cmds := QualityCmds()
	names := make([]string, 0, len(cmds))
	for _, c := range cmds {
		names = append(names, c.Name())
		assert.NotNil(t, c.RunE)
	}
	assert.Equal(t, []string{"test", "lint", "integration-test"}, names)
}

func TestBuildCmd_Flags(t *testing.T) {
	cmd := BuildCmd()
	for _, name := range []string{"no-cache", "version", "os", "arch", "cross-os", "cross-arch"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
}

func TestChangelogArgs(t *testing.T) {
	assert.Equal(t, []string{"--output", "CHANGELOG.md"}, changelogArgs("", "", ""))
	assert.Equal(t, []string{"--output", "CHANGES.md", "--next-tag", "v0.2.0"}, changelogArgs("v0.2.0", "CHANGES.md", ""))
	assert.Equal(t, []string{"--output", "CHANGELOG.md", "v0.1.0"}, changelogArgs("", "CHANGELOG.md", "v0.1.0"))
}
