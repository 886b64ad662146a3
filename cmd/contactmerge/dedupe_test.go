package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contactmerge/contactmerge/internal/addressbook"
	"github.com/contactmerge/contactmerge/internal/deduplication"
)

const contactsCSV = "fn,tel,email,org\n" +
	"John Smith,555-1234,,\n" +
	"Jane Roe,999-0000,jane@example.com,\n" +
	"\"Smith, John\",,,Acme\n" +
	"Smith John,5551234,john@example.com,\n"

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"CONTACTMERGE_THRESHOLD", "CONTACTMERGE_MERGE", "CONTACTMERGE_DRY_RUN"} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}
}

func TestRunDedupeLinkCSV(t *testing.T) {
	in := writeInput(t, "contacts.csv", contactsCSV)
	out := filepath.Join(t.TempDir(), "linked.csv")

	var console bytes.Buffer
	res, err := runDedupe(dedupeOptions{InputFile: in, OutputFile: out}, deduplication.DefaultConfig(), &console)
	require.NoError(t, err)
	assert.Len(t, res.Records, 4)
	assert.Contains(t, console.String(), "Exported 4 contacts to CSV")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t,
		"match,certainty,uid,fn,tel,email,org\n"+
			",,0,John Smith,555-1234,,\n"+
			",,1,Jane Roe,999-0000,jane@example.com,\n"+
			"0,100.0,2,\"Smith, John\",,,Acme\n"+
			"0,100.0,3,Smith John,5551234,john@example.com,\n",
		string(data))
}

func TestRunDedupeMergeToVCF(t *testing.T) {
	in := writeInput(t, "contacts.csv", contactsCSV)
	out := filepath.Join(t.TempDir(), "merged.vcf")

	cfg := deduplication.Config{Threshold: 80, Merge: true}
	res, err := runDedupe(dedupeOptions{InputFile: in, OutputFile: out}, cfg, &bytes.Buffer{})
	require.NoError(t, err)
	require.Len(t, res.Records, 2)

	merged, err := addressbook.Import(out, addressbook.FormatVCF, addressbook.Options{})
	require.NoError(t, err)
	require.Len(t, merged, 2)
	assert.Equal(t, "John Smith;Smith, John;Smith John", merged[0].Get("fn"))
	assert.Equal(t, "555-1234;5551234", merged[0].Get("tel"))
	assert.Equal(t, "Acme", merged[0].Get("org"))
	assert.Equal(t, "john@example.com", merged[0].Get("email"))
	assert.Equal(t, "Jane Roe", merged[1].Get("fn"))
}

func TestRunDedupeDryRunWritesNothing(t *testing.T) {
	in := writeInput(t, "contacts.csv", contactsCSV)
	outDir := t.TempDir()

	var console bytes.Buffer
	cfg := deduplication.Config{Threshold: 80, Merge: true, DryRun: true}
	res, err := runDedupe(dedupeOptions{InputFile: in, OutputFile: filepath.Join(outDir, "out.csv")}, cfg, &console)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Stats.WouldMerge)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Contains(t, console.String(), "DRY RUN: Would merge contact UID 2 into master UID 0 with score 100.00")
	assert.Contains(t, console.String(), "Dry run complete. No changes have been made.")
}

func TestRunDedupeDryRunWithoutOutputFile(t *testing.T) {
	in := writeInput(t, "contacts.csv", contactsCSV)
	cfg := deduplication.Config{Threshold: 80, Merge: true, DryRun: true}
	_, err := runDedupe(dedupeOptions{InputFile: in}, cfg, &bytes.Buffer{})
	assert.NoError(t, err)
}

func TestRunDedupeErrors(t *testing.T) {
	empty := writeInput(t, "empty.csv", "fn,tel\n")
	in := writeInput(t, "contacts.csv", contactsCSV)

	_, err := runDedupe(dedupeOptions{InputFile: empty, OutputFile: filepath.Join(t.TempDir(), "o.csv")},
		deduplication.DefaultConfig(), &bytes.Buffer{})
	assert.True(t, errors.Is(err, addressbook.ErrEmptyInput))

	_, err = runDedupe(dedupeOptions{InputFile: in}, deduplication.DefaultConfig(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "--output-file is required")

	_, err = runDedupe(dedupeOptions{InputFile: in, OutputFile: "out.json"}, deduplication.DefaultConfig(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "output:")

	_, err = runDedupe(dedupeOptions{InputFile: in, InputFormat: "pdf", OutputFile: "out.csv"}, deduplication.DefaultConfig(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "unsupported format")
}

func TestResolveConfigPrecedence(t *testing.T) {
	cfgFile := writeInput(t, "cfg.yaml", "threshold: 60\nmerge: true\ninput_encoding: windows-1251\n")

	t.Run("file then env then flags", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONTACTMERGE_THRESHOLD", "70")

		cmd := &cobra.Command{}
		var opts dedupeOptions
		addDedupeFlags(cmd, &opts)
		require.NoError(t, cmd.Flags().Parse([]string{"--config", cfgFile, "--dry-run"}))

		cfg, err := resolveConfig(cmd, &opts)
		require.NoError(t, err)
		assert.Equal(t, 70.0, cfg.Threshold, "env beats file")
		assert.True(t, cfg.Merge, "file beats default")
		assert.True(t, cfg.DryRun, "flag applied")
		assert.Equal(t, "windows-1251", opts.InputEncoding)
	})

	t.Run("explicit flags win", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONTACTMERGE_THRESHOLD", "70")

		cmd := &cobra.Command{}
		var opts dedupeOptions
		addDedupeFlags(cmd, &opts)
		require.NoError(t, cmd.Flags().Parse([]string{
			"--config", cfgFile, "--threshold", "95", "--merge=false", "--input-encoding", "latin1",
		}))

		cfg, err := resolveConfig(cmd, &opts)
		require.NoError(t, err)
		assert.Equal(t, 95.0, cfg.Threshold)
		assert.False(t, cfg.Merge)
		assert.Equal(t, "latin1", opts.InputEncoding)
	})

	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cmd := &cobra.Command{}
		var opts dedupeOptions
		addDedupeFlags(cmd, &opts)
		require.NoError(t, cmd.Flags().Parse(nil))

		cfg, err := resolveConfig(cmd, &opts)
		require.NoError(t, err)
		assert.Equal(t, deduplication.DefaultConfig(), cfg)
	})

	t.Run("bad env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("CONTACTMERGE_MERGE", "sometimes")

		cmd := &cobra.Command{}
		var opts dedupeOptions
		addDedupeFlags(cmd, &opts)
		require.NoError(t, cmd.Flags().Parse(nil))

		_, err := resolveConfig(cmd, &opts)
		assert.Error(t, err)
	})
}

func TestRunFields(t *testing.T) {
	in := writeInput(t, "contacts.csv", contactsCSV)

	var out bytes.Buffer
	require.NoError(t, runFields(&out, in, "", ""))
	assert.Contains(t, out.String(), "4 contacts in")
	assert.Contains(t, out.String(), " 1. uid")
	assert.Contains(t, out.String(), " 5. org")
	assert.NotContains(t, out.String(), "match")

	empty := writeInput(t, "empty.csv", "fn\n")
	assert.ErrorIs(t, runFields(&out, empty, "", ""), addressbook.ErrEmptyInput)
}
