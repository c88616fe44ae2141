package envelope

import (
	"encoding/json"
	"testing"
	"time"
)

func TestOK(t *testing.T) {
	env := OK(map[string]string{"k": "v"}, "done")
	if !env.Success {
		t.Error("OK envelope should have success=true")
	}
	if env.Message != "done" {
		t.Errorf("message = %q, want %q", env.Message, "done")
	}
	if env.Version != Version {
		t.Errorf("version = %q, want %q", env.Version, Version)
	}
	if env.Timestamp == "" {
		t.Error("timestamp must not be empty")
	}
	if _, err := time.Parse(time.RFC3339, env.Timestamp); err != nil {
		t.Errorf("timestamp %q is not RFC3339: %v", env.Timestamp, err)
	}
}

func TestErr(t *testing.T) {
	env := Err("TASK_NOT_FOUND", "Task with ID task_999 not found")
	if env.Success {
		t.Error("error envelope should have success=false")
	}
	if env.Error != "TASK_NOT_FOUND" {
		t.Errorf("error = %q, want TASK_NOT_FOUND", env.Error)
	}
	if env.Timestamp == "" || env.Version == "" {
		t.Error("timestamp and version must not be empty")
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	data, err := json.Marshal(OK("payload", "msg"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"success", "data", "message", "timestamp", "version"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing %q field", key)
		}
	}
	if m["data"] != "payload" {
		t.Errorf("data = %v, want payload", m["data"])
	}
}

func TestErrorEnvelopeJSONShape(t *testing.T) {
	data, err := json.Marshal(Err("NOT_FOUND", "gone"))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"success", "error", "message", "timestamp", "version"} {
		if _, ok := m[key]; !ok {
			t.Errorf("missing %q field", key)
		}
	}
	if _, ok := m["data"]; ok {
		t.Error("error envelope must not carry data")
	}
}
