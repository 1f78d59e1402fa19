package main

import "testing"

func TestParseFlagsRequiresFile(t *testing.T) {
	if _, err := parseFlags([]string{}); err == nil {
		t.Fatal("expected an error when -f/--file is omitted")
	}
}

func TestParseFlagsAppliesDefaults(t *testing.T) {
	config, err := parseFlags([]string{"-f", "scene.yaml"})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if config.ImagePath != "output.png" {
		t.Fatalf("expected default image path \"output.png\", got %q", config.ImagePath)
	}
	if config.Width != 1024 || config.Height != 768 {
		t.Fatalf("expected default resolution 1024x768, got %dx%d", config.Width, config.Height)
	}
	if config.Samples != 4 {
		t.Fatalf("expected default samples 4, got %d", config.Samples)
	}
	if config.Region != nil {
		t.Fatal("expected no region by default")
	}
}

func TestParseFlagsLongForm(t *testing.T) {
	config, err := parseFlags([]string{
		"--file", "scene.yaml",
		"--image", "render.png",
		"--resolution", "640,480",
		"--samples", "16",
		"--depth", "6",
		"--region", "10,20,30,40",
	})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if config.ScenePath != "scene.yaml" {
		t.Fatalf("expected scene path \"scene.yaml\", got %q", config.ScenePath)
	}
	if config.ImagePath != "render.png" {
		t.Fatalf("expected image path \"render.png\", got %q", config.ImagePath)
	}
	if config.Width != 640 || config.Height != 480 {
		t.Fatalf("expected resolution 640x480, got %dx%d", config.Width, config.Height)
	}
	if config.Samples != 16 {
		t.Fatalf("expected 16 samples, got %d", config.Samples)
	}
	if config.Depth != 6 {
		t.Fatalf("expected depth 6, got %d", config.Depth)
	}
	if config.Region == nil {
		t.Fatal("expected a parsed region")
	}
	if config.Region.X != 10 || config.Region.Y != 20 || config.Region.W != 30 || config.Region.H != 40 {
		t.Fatalf("expected region {10,20,30,40}, got %+v", *config.Region)
	}
}

func TestParseFlagsRejectsMalformedResolution(t *testing.T) {
	if _, err := parseFlags([]string{"-f", "scene.yaml", "-r", "not-a-resolution"}); err == nil {
		t.Fatal("expected an error for a malformed --resolution")
	}
}

func TestParseFlagsRejectsMalformedRegion(t *testing.T) {
	if _, err := parseFlags([]string{"-f", "scene.yaml", "--region", "1,2,3"}); err == nil {
		t.Fatal("expected an error for a malformed --region")
	}
}

func TestFileExt(t *testing.T) {
	if got := fileExt("output.png"); got != ".png" {
		t.Fatalf("expected \".png\", got %q", got)
	}
	if got := fileExt("noext"); got != "" {
		t.Fatalf("expected no extension, got %q", got)
	}
}
