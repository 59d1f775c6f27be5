package tui

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/pders01/gamesearch/internal/config"
)

func TestShowBanner(t *testing.T) {
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	ShowBanner("1.0.0-test")

	w.Close()
	os.Stdout = old
	out := <-outC

	if !strings.Contains(out, "Game Telemetry Search") {
		t.Errorf("Expected banner to contain 'Game Telemetry Search', got: %s", out)
	}
	if !strings.Contains(out, "╔") || !strings.Contains(out, "╝") {
		t.Errorf("Expected banner to contain border characters, got: %s", out)
	}
	if !strings.Contains(out, "◆") {
		t.Errorf("Expected banner to contain separator symbols, got: %s", out)
	}
	if !strings.Contains(out, "v1.0.0-test") {
		t.Errorf("Expected banner to contain version 'v1.0.0-test', got: %s", out)
	}
}

func TestGetCompactBanner(t *testing.T) {
	message := "Test message"
	result := GetCompactBanner(message)

	if !strings.Contains(result, message) {
		t.Errorf("Expected compact banner to contain '%s', got: %s", message, result)
	}
	if !strings.Contains(result, "▄████") {
		t.Errorf("Expected compact banner to contain logo elements, got: %s", result)
	}
}

func TestGetWelcomeMessage(t *testing.T) {
	result := GetWelcomeMessage()

	if !strings.Contains(result, "Type a search and press Enter") {
		t.Errorf("Expected welcome message to contain instructions, got: %s", result)
	}
}

func TestLogoConstants(t *testing.T) {
	if len(LogoLines) != 5 {
		t.Errorf("Expected 5 logo lines, got %d", len(LogoLines))
	}
	if len(BannerColors) != 5 {
		t.Errorf("Expected 5 banner colors, got %d", len(BannerColors))
	}
}

func TestApplyTheme(t *testing.T) {
	saved := []lipgloss.Color{PrimaryColor, SecondaryColor, ErrorColor}
	t.Cleanup(func() {
		PrimaryColor, SecondaryColor, ErrorColor = saved[0], saved[1], saved[2]
		buildStyles()
	})

	ApplyTheme(config.UIColors{Primary: "#000001", Error: "#000002"})

	assert.Equal(t, lipgloss.Color("#000001"), PrimaryColor)
	assert.Equal(t, lipgloss.Color("#000002"), ErrorColor)
	assert.Equal(t, saved[1], SecondaryColor, "empty entries keep the built-in color")
	assert.Equal(t, lipgloss.Color("#000002"), ErrorMessageStyle.GetForeground())
}
