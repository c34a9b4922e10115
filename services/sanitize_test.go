package services

import (
	"testing"

	"techsupport_pro_go/models"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "Hallo Welt", SanitizeText("Hallo <b>Welt</b>"))
	assert.Equal(t, "Anna", SanitizeText("  <i>Anna</i> "))
	assert.Equal(t, "", SanitizeText(""))
	assert.Equal(t, "Tom &amp; Jerry", SanitizeText("Tom & Jerry"))
}

func TestSanitizeText_NoTagDelimiters(t *testing.T) {
	inputs := []string{
		"<script>alert('x')</script>Hallo",
		"<b>fett</b>",
		"<img src=x onerror=alert(1)>",
		"<<b>>doppelt<</b>>",
		"offen <b",
		"a < b > c",
		"<a href=\"javascript:alert(1)\">Link</a>",
		"&lt;script&gt;entities&lt;/script&gt;",
	}

	for _, in := range inputs {
		out := SanitizeText(in)
		assert.NotContains(t, out, "<", "input %q", in)
		assert.NotContains(t, out, ">", "input %q", in)
		assert.NotContains(t, out, "<script", "input %q", in)
	}
}

func TestSanitizeText_Idempotent(t *testing.T) {
	inputs := []string{
		"Hallo <b>Welt</b>",
		"<script>alert(1)</script>",
		"Tom & Jerry's \"Firma\"",
		"offen <b",
		"&lt;b&gt;",
		"  Zeile 1\nZeile 2  ",
	}

	for _, in := range inputs {
		once := SanitizeText(in)
		assert.Equal(t, once, SanitizeText(once), "input %q", in)
	}
}

func TestSanitizeSubmission(t *testing.T) {
	got := SanitizeSubmission(models.SubmissionRequest{
		Name:           "<b>Anna</b>",
		Email:          "anna@example.com",
		Message:        "Hallo <b>Welt</b>",
		TurnstileToken: "token",
	})

	assert.Equal(t, models.SanitizedSubmission{
		Name:    "Anna",
		Email:   "anna@example.com",
		Company: "",
		Message: "Hallo Welt",
	}, got)
}
