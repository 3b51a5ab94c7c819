package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusManager_Report(t *testing.T) {
	sm := NewStatusManager(time.Second)

	sm.Report("Files Uploaded!!", false)
	msg, typ, ok := sm.GetMessage()
	assert.True(t, ok)
	assert.Equal(t, "Files Uploaded!!", msg)
	assert.Equal(t, MessageSuccess, typ)

	sm.Report("no device connected", true)
	_, typ, _ = sm.GetMessage()
	assert.Equal(t, MessageError, typ)
	assert.Contains(t, sm.RenderMessage(), "no device connected")
}

func TestStatusManager_Expire(t *testing.T) {
	sm := NewStatusManager(time.Second)

	sm.SetMessage("3 files saved", MessageSuccess)
	assert.False(t, sm.Expire(time.Now()))
	assert.True(t, sm.Expire(time.Now().Add(2*time.Second)))
	assert.False(t, sm.HasMessage())
	assert.Empty(t, sm.RenderMessage())

	sm.SetMessage("failed to delete", MessageError)
	assert.False(t, sm.Expire(time.Now().Add(time.Hour)))
	assert.True(t, sm.HasMessage())
}
