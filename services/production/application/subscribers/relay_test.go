package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
	domainevents "github.com/ghuser/shopfloor/services/production/domain/events"
	"github.com/ghuser/shopfloor/services/production/domain/models"
	"github.com/ghuser/shopfloor/services/production/infrastructure/persistence/memory"
)

type fakeBroadcaster struct {
	mu    sync.Mutex
	types []string
}

func (f *fakeBroadcaster) Publish(_ context.Context, typ string, _ any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, typ)
	return nil
}

type fakeArchive struct {
	docs map[string]any
	err  error
}

func (f *fakeArchive) PutJSON(_ context.Context, key string, v any) error {
	if f.err != nil {
		return f.err
	}
	f.docs[key] = v
	return nil
}

func newMessage(t *testing.T, v any) *message.Message {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), body)
}

func completedState(t *testing.T, repo *memory.ProductionRepository) *models.ProductionState {
	t.Helper()
	op := models.Operator{ID: "op-1", Name: "Ada"}
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	s, err := models.NewProductionState("ORD-1", "CAB-01", "Cabinet", 2, op, now)
	require.NoError(t, err)
	require.NoError(t, repo.Insert(context.Background(), s))
	entry, err := s.Confirm("CAB-01", 2, op, now.Add(time.Minute))
	require.NoError(t, err)
	require.NoError(t, s.Complete(now.Add(2*time.Minute)))
	require.NoError(t, repo.Update(context.Background(), s, []models.HistoryEntry{entry}))
	return s
}

func completedEvent(s *models.ProductionState) domainevents.ProductionStateChangedEvent {
	return domainevents.ProductionStateChangedEvent{
		EventID:          uuid.New(),
		Version:          1,
		Transition:       domainevents.TransitionCompleted,
		StateID:          s.ID,
		OrderID:          s.OrderID,
		ProductCode:      s.ProductCode,
		TargetQuantity:   s.TargetQuantity,
		ProducedQuantity: s.ProducedQuantity,
		IsCompleted:      true,
		CompletedAt:      s.CompletedAt,
		OperatorID:       s.Operator.ID,
		OccurredAt:       time.Now().UTC(),
	}
}

func TestRelay_ArchivesCompletedRunWithHistory(t *testing.T) {
	repo := memory.NewProductionRepository()
	s := completedState(t, repo)
	rt := &fakeBroadcaster{}
	archive := &fakeArchive{docs: map[string]any{}}
	r := &Relay{Realtime: rt, Archive: archive, States: repo, Log: logger.New(&config.Config{LogLevel: "error"})}

	evt := completedEvent(s)
	require.NoError(t, r.HandleStateChanged(context.Background(), newMessage(t, evt)))

	key := "production/completed/2025/03/01/" + s.ID.String() + ".json"
	assert.Equal(t, key, ArchiveKey(evt))
	require.Contains(t, archive.docs, key)
	run := archive.docs[key].(ArchivedRun)
	assert.Equal(t, 2, run.ProducedQuantity)
	require.Len(t, run.History, 1)
	assert.Equal(t, "op-1", run.History[0].OperatorID)
	assert.Equal(t, []string{domainevents.TopicStateChanged}, rt.types)
}

func TestRelay_OnlyCompletedRunsAreArchived(t *testing.T) {
	archive := &fakeArchive{docs: map[string]any{}}
	r := &Relay{Realtime: &fakeBroadcaster{}, Archive: archive, Log: logger.New(&config.Config{LogLevel: "error"})}

	evt := domainevents.ProductionStateChangedEvent{StateID: uuid.New(), Transition: domainevents.TransitionConfirmed}
	require.NoError(t, r.HandleStateChanged(context.Background(), newMessage(t, evt)))
	assert.Empty(t, archive.docs)
}

func TestRelay_ArchiveFailureIsRetried(t *testing.T) {
	repo := memory.NewProductionRepository()
	s := completedState(t, repo)
	r := &Relay{Archive: &fakeArchive{err: errors.New("bucket gone")}, Log: logger.New(&config.Config{LogLevel: "error"})}

	err := r.HandleStateChanged(context.Background(), newMessage(t, completedEvent(s)))
	assert.Error(t, err)
}

func TestRelay_PoisonMessagesAreDropped(t *testing.T) {
	rt := &fakeBroadcaster{}
	r := &Relay{Realtime: rt, Log: logger.New(&config.Config{LogLevel: "error"})}
	bad := message.NewMessage(watermill.NewUUID(), []byte("{"))

	assert.NoError(t, r.HandleStateChanged(context.Background(), bad))
	assert.NoError(t, r.HandleNotification(context.Background(), bad))
	assert.NoError(t, r.Forward("catalog.unit_cost_refreshed")(context.Background(), bad))
	assert.Empty(t, rt.types)
}

func TestRelay_NotificationAndForward(t *testing.T) {
	rt := &fakeBroadcaster{}
	r := &Relay{Realtime: rt, Log: logger.New(&config.Config{LogLevel: "error"})}

	note := domainevents.NotificationEvent{EventID: uuid.New(), Title: "Target reached", Type: domainevents.NotificationSuccess}
	require.NoError(t, r.HandleNotification(context.Background(), newMessage(t, note)))
	require.NoError(t, r.Forward("catalog.unit_cost_refreshed")(context.Background(), newMessage(t, map[string]float64{"unit_cost": 60})))

	assert.Equal(t, []string{domainevents.TopicNotification, "catalog.unit_cost_refreshed"}, rt.types)
}
