package approval

import (
	"context"
	"sync"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

// Ensure, that entityStoreMock does implement entityStore.
var _ entityStore = &entityStoreMock{}

type entityStoreMock struct {
	GetForUpdateFunc func(ctx context.Context, entityType, id string) (*domain.Entity, error)
	PatchFunc        func(ctx context.Context, entityType, id string, fields domain.Snapshot) (*domain.Entity, error)

	calls struct {
		GetForUpdate []struct {
			Ctx        context.Context
			EntityType string
			ID         string
		}
		Patch []struct {
			Ctx        context.Context
			EntityType string
			ID         string
			Fields     domain.Snapshot
		}
	}
	lockGetForUpdate sync.RWMutex
	lockPatch        sync.RWMutex
}

func (mock *entityStoreMock) GetForUpdate(ctx context.Context, entityType, id string) (*domain.Entity, error) {
	if mock.GetForUpdateFunc == nil {
		panic("entityStoreMock.GetForUpdateFunc: method is nil but entityStore.GetForUpdate was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		EntityType string
		ID         string
	}{Ctx: ctx, EntityType: entityType, ID: id}
	mock.lockGetForUpdate.Lock()
	mock.calls.GetForUpdate = append(mock.calls.GetForUpdate, callInfo)
	mock.lockGetForUpdate.Unlock()
	return mock.GetForUpdateFunc(ctx, entityType, id)
}

func (mock *entityStoreMock) GetForUpdateCalls() []struct {
	Ctx        context.Context
	EntityType string
	ID         string
} {
	mock.lockGetForUpdate.RLock()
	defer mock.lockGetForUpdate.RUnlock()
	return mock.calls.GetForUpdate
}

func (mock *entityStoreMock) Patch(ctx context.Context, entityType, id string, fields domain.Snapshot) (*domain.Entity, error) {
	if mock.PatchFunc == nil {
		panic("entityStoreMock.PatchFunc: method is nil but entityStore.Patch was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		EntityType string
		ID         string
		Fields     domain.Snapshot
	}{Ctx: ctx, EntityType: entityType, ID: id, Fields: fields}
	mock.lockPatch.Lock()
	mock.calls.Patch = append(mock.calls.Patch, callInfo)
	mock.lockPatch.Unlock()
	return mock.PatchFunc(ctx, entityType, id, fields)
}

func (mock *entityStoreMock) PatchCalls() []struct {
	Ctx        context.Context
	EntityType string
	ID         string
	Fields     domain.Snapshot
} {
	mock.lockPatch.RLock()
	defer mock.lockPatch.RUnlock()
	return mock.calls.Patch
}

// Ensure, that txManagerMock does implement txManager.
var _ txManager = &txManagerMock{}

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error

	calls struct {
		RunInTx []struct {
			Ctx context.Context
		}
	}
	lockRunInTx sync.RWMutex
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	callInfo := struct {
		Ctx context.Context
	}{Ctx: ctx}
	mock.lockRunInTx.Lock()
	mock.calls.RunInTx = append(mock.calls.RunInTx, callInfo)
	mock.lockRunInTx.Unlock()
	return mock.RunInTxFunc(ctx, fn)
}

func (mock *txManagerMock) RunInTxCalls() []struct {
	Ctx context.Context
} {
	mock.lockRunInTx.RLock()
	defer mock.lockRunInTx.RUnlock()
	return mock.calls.RunInTx
}

// Ensure, that eventSinkMock does implement eventSink.
var _ eventSink = &eventSinkMock{}

type eventSinkMock struct {
	PublishFunc func(ctx context.Context, ev domain.ChangeEvent) error

	calls struct {
		Publish []struct {
			Ctx context.Context
			Ev  domain.ChangeEvent
		}
	}
	lockPublish sync.RWMutex
}

func (mock *eventSinkMock) Publish(ctx context.Context, ev domain.ChangeEvent) error {
	if mock.PublishFunc == nil {
		panic("eventSinkMock.PublishFunc: method is nil but eventSink.Publish was just called")
	}
	callInfo := struct {
		Ctx context.Context
		Ev  domain.ChangeEvent
	}{Ctx: ctx, Ev: ev}
	mock.lockPublish.Lock()
	mock.calls.Publish = append(mock.calls.Publish, callInfo)
	mock.lockPublish.Unlock()
	return mock.PublishFunc(ctx, ev)
}

func (mock *eventSinkMock) PublishCalls() []struct {
	Ctx context.Context
	Ev  domain.ChangeEvent
} {
	mock.lockPublish.RLock()
	defer mock.lockPublish.RUnlock()
	return mock.calls.Publish
}
