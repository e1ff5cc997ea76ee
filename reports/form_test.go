package reports

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestXFDFSave(t *testing.T) {
	dir := t.TempDir()
	template := filepath.Join(dir, "S-26-E.pdf")
	assert.NoError(t, os.WriteFile(template, []byte("%PDF-1.4"), 0o644))
	output := filepath.Join(dir, "2024-03", "S-26-E Accounts Sheet.xfdf")

	form, err := NewXFDF(template, output)
	assert.NoError(t, err)
	assert.NoError(t, form.SetValue("Text1", "North & South"))
	assert.NoError(t, form.SetValue("Text2", "first"))
	assert.NoError(t, form.SetValue("Text2", "second"))
	assert.NoError(t, form.SetCheckBox("Check Box1", true))
	assert.NoError(t, form.Save())
	assert.NoError(t, form.Close())

	data, err := os.ReadFile(output)
	assert.NoError(t, err)
	got := string(data)
	assert.Contains(t, got, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, got, `<xfdf xmlns="http://ns.adobe.com/xfdf/">`)
	assert.Contains(t, got, `<f href="`+template+`"></f>`)
	assert.Contains(t, got, `<field name="Text1">`)
	assert.Contains(t, got, `<value>North &amp; South</value>`)
	assert.Contains(t, got, `<value>second</value>`)
	assert.NotContains(t, got, `<value>first</value>`)
	assert.Contains(t, got, `<value>Yes</value>`)

	// A second save keeps the previous output.
	assert.NoError(t, form.SetCheckBox("Check Box1", false))
	assert.NoError(t, form.Save())
	backup, err := os.ReadFile(output + ".bak")
	assert.NoError(t, err)
	assert.Equal(t, got, string(backup))
	data, err = os.ReadFile(output)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `<value>Off</value>`)
}

func TestXFDFMissingTemplate(t *testing.T) {
	dir := t.TempDir()
	_, err := NewXFDF(filepath.Join(dir, "missing.pdf"), filepath.Join(dir, "out.xfdf"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be read")

	_, err = NewXFDF("", filepath.Join(dir, "out.xfdf"))
	assert.Error(t, err)
}
