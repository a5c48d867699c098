package main

import (
	"bytes"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonathan/hireo/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCV(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "nested", "cv.pdf")
	thumb := filepath.Join(dir, "cv.png")

	output, err := execute(t, "generate-cv", "--profile", validProfile, "--template", "modern", "--out", out, "--thumbnail", thumb)
	require.NoError(t, err, output)
	assert.Contains(t, output, "CV with template modern")

	pdf, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	f, err := os.Open(thumb)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 210, img.Bounds().Dx())
	assert.Equal(t, 297, img.Bounds().Dy())
}

func TestGenerateCV_Verbose(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cv.pdf")

	output, err := execute(t, "generate-cv", "-v", "--profile", validProfile, "--out", out, "--max-pages", "3")
	require.NoError(t, err, output)
	assert.Contains(t, output, "GENERATED DOCUMENT")
	assert.Contains(t, output, "RENDER PLAN")
}

func TestGenerateCV_InvalidProfile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cv.pdf")

	_, err := execute(t, "generate-cv", "--profile", invalidProfile, "--out", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid profile")
	assert.NoFileExists(t, out)
}

func TestGenerateCV_MissingFlags(t *testing.T) {
	_, err := execute(t, "generate-cv", "--profile", validProfile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "out" not set`)
}

func TestGenerateCV_StrictTemplate(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cv.pdf")

	_, err := execute(t, "generate-cv", "--profile", validProfile, "--out", out, "--template", "nope", "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")

	output, err := execute(t, "generate-cv", "--profile", validProfile, "--out", out, "--template", "nope")
	require.NoError(t, err, output)
	assert.Contains(t, output, "Warning:")
	assert.FileExists(t, out)
}

func TestGenerateCV_ConfigFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cv.pdf")
	cfg := writeTemp(t, "config.json", `{"template": "compact", "forbidden_phrases": ["Lovelace"]}`)

	output, err := execute(t, "generate-cv", "--config", cfg, "--profile", validProfile, "--out", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation found")
	assert.Contains(t, output, "CV with template compact")
	assert.Contains(t, output, "forbidden_phrase")

	// Flags win over the config file.
	output, err = execute(t, "generate-cv", "--config", cfg, "--profile", validProfile, "--out", out, "--template", "classic")
	require.Error(t, err)
	assert.Contains(t, output, "CV with template classic")
}

func TestGenerateCoverLetter(t *testing.T) {
	out := filepath.Join(t.TempDir(), "letter.pdf")
	letter := writeTemp(t, "letter.json", `{
		"application": {"company": "Babbage & Co", "position": "Analyst"},
		"letter": {"greeting": "Dear Mr Babbage,", "paragraphs": ["I am writing to apply.", "Kind regards."]}
	}`)

	output, err := execute(t, "generate-cover-letter", "--profile", validProfile, "--letter", letter, "--out", out)
	require.NoError(t, err, output)
	assert.Contains(t, output, "cover letter with template letter-")

	pdf, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestGenerateCoverLetter_InvalidLetter(t *testing.T) {
	out := filepath.Join(t.TempDir(), "letter.pdf")
	letter := writeTemp(t, "letter.json", `{"letter": {"paragraphs": "not a list"}}`)

	_, err := execute(t, "generate-cover-letter", "--profile", validProfile, "--letter", letter, "--out", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid letter")
}

func TestThumbnail(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "cv.pdf")
	_, err := execute(t, "generate-cv", "--profile", validProfile, "--out", pdf)
	require.NoError(t, err)

	out := filepath.Join(dir, "thumb.png")
	output, err := execute(t, "thumbnail", "--in", pdf, "--out", out, "--width", "50", "--height", "70")
	require.NoError(t, err, output)
	assert.Contains(t, output, "Rendered 50x70 thumbnail")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Width)
	assert.Equal(t, 70, cfg.Height)
}

func TestThumbnail_Errors(t *testing.T) {
	notPDF := writeTemp(t, "x.pdf", "hello")
	out := filepath.Join(t.TempDir(), "thumb.png")

	_, err := execute(t, "thumbnail", "--in", notPDF, "--out", out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render thumbnail")

	_, err = execute(t, "thumbnail", "--in", notPDF, "--out", out, "--width", "5000")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "thumbnail")
}

func TestGenerateCV_Sections(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cv.pdf")

	output, err := execute(t, "generate-cv", "-v", "--profile", validProfile, "--out", out, "--include", "summary,work_experience")
	require.NoError(t, err, output)
	assert.Contains(t, output, "workExperience")
	assert.NotContains(t, output, ", education")

	_, err = execute(t, "generate-cv", "--profile", validProfile, "--out", out, "--include", "hobbies")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --include")
}

func TestGenerateCV_OrderFromCatalog(t *testing.T) {
	output, err := execute(t, "templates", "--kind", "cv", "--json")
	require.NoError(t, err)
	var infos []templateInfo
	require.NoError(t, json.Unmarshal([]byte(output), &infos))

	var sections []types.SectionKind
	for _, info := range infos {
		if info.ID == "classic" {
			sections = info.Sections
		}
	}
	require.NotEmpty(t, sections)

	// Keep the header first and reverse the rest.
	names := []string{sections[0].String()}
	for i := len(sections) - 1; i > 0; i-- {
		names = append(names, sections[i].String())
	}
	resetFlags(rootCmd)

	out := filepath.Join(t.TempDir(), "cv.pdf")
	output, err = execute(t, "generate-cv", "--profile", validProfile, "--template", "classic", "--out", out, "--order", strings.Join(names, ","))
	require.NoError(t, err, output)
	assert.NotContains(t, output, "Warning:")
	assert.FileExists(t, out)

	// The cover letter body is not a CV section.
	resetFlags(rootCmd)
	names = append(names, types.SectionCoverLetterBody.String())
	output, err = execute(t, "generate-cv", "--profile", validProfile, "--template", "classic", "--out", out, "--order", strings.Join(names, ","))
	require.NoError(t, err, output)
	assert.Contains(t, output, "Warning:")
	assert.Contains(t, output, "default order")
}
