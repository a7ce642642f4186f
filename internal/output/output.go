// Package output writes the plugin's JSON documents, one per event.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"machmon/internal/models"
)

// JSONEmitter writes indented JSON documents to a single writer, stdout in
// production. The mutex keeps documents whole when the loop and the status
// server share the writer's process lifetime.
type JSONEmitter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewJSONEmitter creates an emitter over w
func NewJSONEmitter(w io.Writer) *JSONEmitter {
	return &JSONEmitter{w: w}
}

// EmitSnapshot writes the success envelope around a snapshot
func (e *JSONEmitter) EmitSnapshot(snap *models.Snapshot) error {
	return e.write(models.Result{Status: "success", Data: snap})
}

// EmitTrigger writes a trigger event document
func (e *JSONEmitter) EmitTrigger(event *models.TriggerEvent) error {
	return e.write(event)
}

func (e *JSONEmitter) write(doc interface{}) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output document: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.w.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("writing output document: %w", err)
	}
	return nil
}

// WriteError writes the compact error envelope used before a non-zero exit.
// The process never exits silently.
func WriteError(w io.Writer, message string) {
	raw, err := json.Marshal(models.ErrorResult{Status: "error", Message: message})
	if err != nil {
		fmt.Fprintf(w, `{"status":"error","message":%q}`+"\n", message)
		return
	}
	w.Write(append(raw, '\n'))
}
