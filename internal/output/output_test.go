package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"machmon/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitSnapshotWritesSuccessEnvelope(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf)

	snap := &models.Snapshot{
		Timestamp: time.Now(),
		CPU:       &models.CPUInfo{Count: 4, Percent: 31.2},
		Memory:    &models.MemoryInfo{Virtual: models.VirtualMemory{Percent: 53.3}},
	}
	require.NoError(t, emitter.EmitSnapshot(snap))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, "success", doc["status"])
	data, ok := doc["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, data, "timestamp")
	assert.Contains(t, data, "cpu")
	assert.Contains(t, data, "memory")
	assert.NotContains(t, data, "disk", "disabled categories are omitted entirely")
	assert.NotContains(t, data, "processes")
	assert.NotContains(t, doc, "date_triggered")
}

func TestEmitTriggerHasNoStatusField(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf)

	event := &models.TriggerEvent{
		Data: &models.Snapshot{
			Timestamp: time.Now(),
			CPU:       &models.CPUInfo{Percent: 85.2},
		},
		DateTriggered: time.Now(),
	}
	require.NoError(t, emitter.EmitTrigger(event))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.NotContains(t, doc, "status")
	assert.Contains(t, doc, "data")
	dateTriggered, ok := doc["date_triggered"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, dateTriggered)
	assert.NoError(t, err, "date_triggered must be an RFC3339 timestamp")
}

func TestEmitWritesOneDocumentPerEvent(t *testing.T) {
	var buf bytes.Buffer
	emitter := NewJSONEmitter(&buf)

	snap := &models.Snapshot{Timestamp: time.Now()}
	require.NoError(t, emitter.EmitSnapshot(snap))
	require.NoError(t, emitter.EmitSnapshot(snap))

	decoder := json.NewDecoder(strings.NewReader(buf.String()))
	count := 0
	for decoder.More() {
		var doc map[string]interface{}
		require.NoError(t, decoder.Decode(&doc))
		count++
	}
	assert.Equal(t, 2, count)
}

func TestWriteError(t *testing.T) {
	var buf bytes.Buffer
	WriteError(&buf, "CPU trigger percentage must be between 0 and 100")

	line := strings.TrimSpace(buf.String())
	assert.False(t, strings.Contains(line, "\n"), "error envelope is a single compact line")

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(line), &doc))
	assert.Equal(t, "error", doc["status"])
	assert.Equal(t, "CPU trigger percentage must be between 0 and 100", doc["message"])
}
