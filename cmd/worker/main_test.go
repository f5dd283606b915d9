package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"community-board/pkg/logger"
	"community-board/pkg/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogActivity(t *testing.T) {
	var buf bytes.Buffer
	handle := logActivity(logger.NewWithOptions(logger.Options{Format: "json", Output: &buf}))

	err := handle(queue.RoutingPostLiked, map[string]interface{}{"postId": float64(3), "userId": float64(7)})
	require.NoError(t, err)

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "activity received", line["msg"])
	assert.Equal(t, "post.liked", line["event"])
	assert.EqualValues(t, 3, line["postId"])
}

func TestLogActivity_UnknownRoutingKey(t *testing.T) {
	var buf bytes.Buffer
	handle := logActivity(logger.NewWithOptions(logger.Options{Output: &buf}))

	assert.ErrorIs(t, handle("post.deleted", map[string]interface{}{}), queue.ErrUnknownEvent)
	assert.Zero(t, buf.Len())
}
