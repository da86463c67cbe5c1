package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/newthinker/pricecast/internal/core"
	"github.com/newthinker/pricecast/internal/dashboard"
	"github.com/newthinker/pricecast/internal/modelapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeTrainer struct {
	calls atomic.Int32
	err   error
	ctxs  chan context.Context
}

func (f *fakeTrainer) Train(ctx context.Context) (*modelapi.TrainResult, error) {
	f.calls.Add(1)
	if f.ctxs != nil {
		select {
		case f.ctxs <- ctx:
		default:
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &modelapi.TrainResult{Message: "Model trained successfully"}, nil
}

func TestScheduleRetrain_InvalidSpec(t *testing.T) {
	s := New(context.Background(), &fakeTrainer{}, zap.NewNop())

	err := s.ScheduleRetrain("not a cron")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrConfigInvalid))
	assert.Equal(t, 0, s.Len())
}

func TestScheduleRetrain_Registers(t *testing.T) {
	s := New(context.Background(), &fakeTrainer{}, nil)

	require.NoError(t, s.ScheduleRetrain("0 0 3 * * *"))
	require.NoError(t, s.Every("0 */5 * * * *", "purge", func() {}))
	assert.Equal(t, 2, s.Len())
}

func TestRunRetrainNow_TagsSource(t *testing.T) {
	trainer := &fakeTrainer{ctxs: make(chan context.Context, 1)}
	s := New(context.Background(), trainer, zap.NewNop())

	s.RunRetrainNow()

	assert.Equal(t, int32(1), trainer.calls.Load())
	ctx := <-trainer.ctxs
	assert.Equal(t, SourceScheduler, dashboard.SourceFrom(ctx))
}

func TestRunRetrainNow_Errors(t *testing.T) {
	for _, err := range []error{core.ErrTrainingInProgress, core.ErrTrainFailed} {
		trainer := &fakeTrainer{err: err}
		s := New(context.Background(), trainer, zap.NewNop())

		assert.NotPanics(t, s.RunRetrainNow)
		assert.Equal(t, int32(1), trainer.calls.Load())
	}
}

func TestScheduler_Fires(t *testing.T) {
	trainer := &fakeTrainer{ctxs: make(chan context.Context, 1)}
	s := New(context.Background(), trainer, zap.NewNop())
	require.NoError(t, s.ScheduleRetrain("* * * * * *"))

	s.Start()
	defer s.Stop()

	select {
	case <-trainer.ctxs:
	case <-time.After(3 * time.Second):
		t.Fatal("retrain task did not fire")
	}
}

type blockingTrainer struct {
	entered chan struct{}
}

func (b *blockingTrainer) Train(ctx context.Context) (*modelapi.TrainResult, error) {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestStop_CancelsInFlightRetrain(t *testing.T) {
	trainer := &blockingTrainer{entered: make(chan struct{}, 1)}
	s := New(context.Background(), trainer, zap.NewNop())
	require.NoError(t, s.ScheduleRetrain("* * * * * *"))
	s.Start()

	select {
	case <-trainer.entered:
	case <-time.After(3 * time.Second):
		t.Fatal("retrain task did not start")
	}

	stopped := make(chan struct{})
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop waited on an in-flight retrain instead of cancelling it")
	}
}
