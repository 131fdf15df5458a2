package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
	domainevents "github.com/ghuser/shopfloor/services/production/domain/events"
	"github.com/ghuser/shopfloor/services/production/domain/models"
)

func TestEmitter_StateChangedSnapshot(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter(pub, logger.New(&config.Config{LogLevel: "error"}))

	s, err := models.NewProductionState("ORD-1", "CAB-01", "Cabinet", 3, ada, time.Now())
	require.NoError(t, err)
	e.StateChanged(context.Background(), domainevents.TransitionStarted, s)
	e.Notify(context.Background(), domainevents.NotificationInfo, "hello", "world")
	e.Wait()

	require.Len(t, pub.states, 1)
	got := pub.states[0]
	assert.Equal(t, s.ID, got.StateID)
	assert.Equal(t, 3, got.TargetQuantity)
	assert.Equal(t, "Ada", got.OperatorName)
	assert.True(t, got.IsActive)
	assert.ElementsMatch(t, []string{domainevents.TopicStateChanged, domainevents.TopicNotification}, pub.topics)
}

func TestEmitter_DisabledIsSafe(t *testing.T) {
	var nilEmitter *Emitter
	s, err := models.NewProductionState("ORD-1", "CAB-01", "", 1, ada, time.Now())
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		nilEmitter.StateChanged(context.Background(), domainevents.TransitionStarted, s)
		nilEmitter.Notify(context.Background(), domainevents.NotificationInfo, "a", "b")
	})

	e := NewEmitter(nil, logger.New(&config.Config{LogLevel: "error"}))
	assert.NotPanics(t, func() {
		e.StateChanged(context.Background(), domainevents.TransitionStarted, s)
		e.Wait()
	})
}

func TestEmitter_SurvivesCancelledRequest(t *testing.T) {
	pub := &recordingPublisher{}
	e := NewEmitter(pub, logger.New(&config.Config{LogLevel: "error"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.Notify(ctx, domainevents.NotificationWarning, "late", "still delivered")
	e.Wait()

	assert.Equal(t, []string{domainevents.TopicNotification}, pub.topics)
}
