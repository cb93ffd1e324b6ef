package i18n

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewTranslations(t *testing.T) {
	t.Run("Should load the built-in locales", func(t *testing.T) {
		// act
		trans, err := NewTranslations("en")

		// assert
		if err != nil {
			t.Fatalf("NewTranslations() returned error: %v", err)
		}
		got := trans.GetMessage("generate.written", 0, map[string]interface{}{"Path": "README.md"})
		if got != "README written to README.md" {
			t.Errorf("GetMessage() = %q", got)
		}
	})

	t.Run("Should fail with empty language", func(t *testing.T) {
		// act
		trans, err := NewTranslations("")

		// assert
		if err == nil {
			t.Error("NewTranslations() should fail with an empty language")
		}
		if trans != nil {
			t.Error("NewTranslations() should return nil when it fails")
		}
	})

	t.Run("Should let extra directories override messages", func(t *testing.T) {
		// arrange
		tmpDir := t.TempDir()
		createTestFile(t, tmpDir, "active.en.toml", `
		[cache]
		cleared = "Gone"`)

		// act
		trans, err := NewTranslations("en", tmpDir)

		// assert
		if err != nil {
			t.Fatalf("NewTranslations() returned error: %v", err)
		}
		if got := trans.GetMessage("cache.cleared", 0, nil); got != "Gone" {
			t.Errorf("GetMessage() = %q, want %q", got, "Gone")
		}
	})

	t.Run("Should fail on invalid TOML", func(t *testing.T) {
		// arrange
		tmpDir := t.TempDir()
		createTestFile(t, tmpDir, "active.es.toml", `
		[InvalidSection
		this is not valid TOML`)

		// act
		trans, err := NewTranslations("es", tmpDir)

		// assert
		if err == nil {
			t.Fatal("NewTranslations() should fail with invalid TOML")
		}
		if trans != nil {
			t.Error("NewTranslations() should return nil when it fails")
		}
		if !strings.HasPrefix(err.Error(), "error loading locale file") {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestBuiltinLocalesMatch(t *testing.T) {
	en, err := NewTranslations("en")
	if err != nil {
		t.Fatal(err)
	}
	es, err := NewTranslations("es")
	if err != nil {
		t.Fatal(err)
	}

	ids := []string{
		"app.usage", "generate.usage", "batch.summary", "models.header",
		"cache.cleaned", "config.current", "stats.today", "ui.diagram_missing",
		"ui_error.try_suggestion",
	}
	for _, id := range ids {
		if got := en.GetMessage(id, 2, map[string]interface{}{"Count": 2, "Succeeded": 1}); strings.HasPrefix(got, "Translation missing") {
			t.Errorf("en is missing %s", id)
		}
		if got := es.GetMessage(id, 2, map[string]interface{}{"Count": 2, "Succeeded": 1}); strings.HasPrefix(got, "Translation missing") {
			t.Errorf("es is missing %s", id)
		}
	}
}

func TestSetLanguage(t *testing.T) {
	t.Run("Should change to a valid language", func(t *testing.T) {
		// arrange
		trans, err := NewTranslations("en")
		if err != nil {
			t.Fatal(err)
		}

		// act
		err = trans.SetLanguage("es")

		// assert
		if err != nil {
			t.Errorf("SetLanguage() returned error: %v", err)
		}
		if got := trans.GetMessage("stats.today", 0, nil); got != "Hoy" {
			t.Errorf("GetMessage() = %q, want %q", got, "Hoy")
		}
	})

	t.Run("Should fail with unsupported language", func(t *testing.T) {
		// arrange
		trans, err := NewTranslations("en")
		if err != nil {
			t.Fatal(err)
		}

		// act
		err = trans.SetLanguage("fr")

		// assert
		if err == nil {
			t.Error("SetLanguage() should fail with an unsupported language")
		}
	})
}

func TestGetMessage(t *testing.T) {
	trans, err := NewTranslations("es")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Should pick the singular form", func(t *testing.T) {
		got := trans.GetMessage("cache.cleaned", 1, map[string]interface{}{"Count": 1})
		if got != "Se eliminó 1 respuesta en caché" {
			t.Errorf("GetMessage() = %q", got)
		}
	})

	t.Run("Should pick the plural form", func(t *testing.T) {
		got := trans.GetMessage("cache.cleaned", 3, map[string]interface{}{"Count": 3})
		if got != "Se eliminaron 3 respuestas en caché" {
			t.Errorf("GetMessage() = %q", got)
		}
	})

	t.Run("Should handle missing messages", func(t *testing.T) {
		got := trans.GetMessage("NonExistent", 1, nil)
		if got != "Translation missing: NonExistent" {
			t.Errorf("GetMessage() = %q", got)
		}
	})
}

func createTestFile(t *testing.T, dir, filename, content string) {
	err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644)
	if err != nil {
		t.Fatal("could not create test file:", err)
	}
}
