//-------------------------------------------------------------------------
//
// pgEdge Retail Warehouse
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Pretty: false, Output: &buf})
	defer Init(DefaultConfig())

	Info().Msg("hidden")
	Warn().Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Expected info event to be filtered, got %s", out)
	}
	if !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("Expected JSON warn event, got %s", out)
	}
}

func TestWithComponentAndRunID(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	defer Init(DefaultConfig())

	SetRunID("run-1")
	log := With("loader")
	log.Info().Msg("batch")

	out := buf.String()
	if !strings.Contains(out, `"component":"loader"`) {
		t.Errorf("Expected component field, got %s", out)
	}
	if !strings.Contains(out, `"run_id":"run-1"`) {
		t.Errorf("Expected run_id field, got %s", out)
	}

	buf.Reset()
	SetRunID("run-2")
	Info().Msg("next run")
	out = buf.String()
	if strings.Contains(out, "run-1") {
		t.Errorf("Expected earlier run_id to be replaced, got %s", out)
	}
	if !strings.Contains(out, `"run_id":"run-2"`) {
		t.Errorf("Expected run_id field, got %s", out)
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "chatty", Output: &buf})
	defer Init(DefaultConfig())

	Debug().Msg("debug")
	Info().Msg("info")

	out := buf.String()
	if strings.Contains(out, `"message":"debug"`) {
		t.Error("Expected debug event to be filtered at default level")
	}
	if !strings.Contains(out, `"message":"info"`) {
		t.Errorf("Expected info event, got %s", out)
	}
}
