package tui

import (
	"testing"
)

func TestNewSearchModel(t *testing.T) {
	model := NewSearchModel()

	if model.Active {
		t.Error("Expected Active to be false")
	}
	if model.Input != "" || model.Query != "" {
		t.Error("Expected empty input and query")
	}
}

func TestSearchModel_Lifecycle(t *testing.T) {
	model := NewSearchModel()

	model.Update(StartSearchMsg{})
	if !model.Active {
		t.Fatal("Expected model to be active after StartSearchMsg")
	}

	model.Update(UpdateSearchInputMsg{Input: "gol"})
	if model.Filter() != "gol" {
		t.Errorf("Expected live filter %q, got %q", "gol", model.Filter())
	}

	model.Update(ExecuteSearchMsg{})
	if model.Active || model.Query != "gol" {
		t.Errorf("Expected applied query, got %+v", model)
	}

	// Editing again starts from the applied query
	model.Update(StartSearchMsg{})
	if model.Input != "gol" {
		t.Errorf("Expected input to start at %q, got %q", "gol", model.Input)
	}
	model.Update(UpdateSearchInputMsg{Input: "golang"})
	model.Update(CancelSearchMsg{})
	if model.Filter() != "gol" {
		t.Errorf("Expected cancel to restore %q, got %q", "gol", model.Filter())
	}

	model.Update(ClearSearchMsg{})
	if model.Filter() != "" {
		t.Errorf("Expected filter cleared, got %q", model.Filter())
	}
}
