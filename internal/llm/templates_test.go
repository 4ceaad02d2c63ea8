package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestRenderFileAnalysisTemplate(t *testing.T) {
	out, err := RenderTemplate(TemplateFileAnalysis, map[string]string{
		"fileName":    "main.go",
		"fileContent": "package main",
	})
	if err != nil {
		t.Fatalf("RenderTemplate() failed: %v", err)
	}
	if !strings.Contains(out, "File: main.go") {
		t.Errorf("file name not substituted:\n%s", out)
	}
	if !strings.Contains(out, "package main") {
		t.Errorf("file content not substituted:\n%s", out)
	}
	if strings.Contains(out, "{{") {
		t.Errorf("unsubstituted placeholder remains:\n%s", out)
	}
}

func TestRenderAggregateTemplates(t *testing.T) {
	for _, tmpl := range []Template{TemplateReadme, TemplateAPIReference, TemplateArchitecture} {
		out, err := RenderTemplate(tmpl, map[string]string{"documentation": "DOC-CORPUS"})
		if err != nil {
			t.Fatalf("RenderTemplate(%s) failed: %v", tmpl, err)
		}
		if !strings.Contains(out, "DOC-CORPUS") {
			t.Errorf("%s: documentation not substituted", tmpl)
		}
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := RenderTemplate(Template("bogus"), nil)
	var genErr *GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("expected GenerationError, got %v", err)
	}
	if !errors.Is(err, ErrUnknownTemplate) {
		t.Fatalf("expected ErrUnknownTemplate cause, got %v", err)
	}
}

func TestArchitectureTemplateAsksForFence(t *testing.T) {
	out, err := RenderTemplate(TemplateArchitecture, map[string]string{"documentation": "x"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "```mermaid") {
		t.Error("architecture prompt should pin the fenced-block convention")
	}
}
