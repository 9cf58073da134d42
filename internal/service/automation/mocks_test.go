package automation

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/notification"
)

// Ensure, that notifierMock does implement notifier.
var _ notifier = &notifierMock{}

type notifierMock struct {
	CreateFunc func(ctx context.Context, input notification.CreateInput) (uuid.UUID, error)

	calls struct {
		Create []struct {
			Ctx   context.Context
			Input notification.CreateInput
		}
	}
	lockCreate sync.RWMutex
}

func (mock *notifierMock) Create(ctx context.Context, input notification.CreateInput) (uuid.UUID, error) {
	if mock.CreateFunc == nil {
		panic("notifierMock.CreateFunc: method is nil but notifier.Create was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Input notification.CreateInput
	}{Ctx: ctx, Input: input}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, input)
}

func (mock *notifierMock) CreateCalls() []struct {
	Ctx   context.Context
	Input notification.CreateInput
} {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

// Ensure, that roleDirectoryMock does implement roleDirectory.
var _ roleDirectory = &roleDirectoryMock{}

type roleDirectoryMock struct {
	EmailsByRolesFunc func(ctx context.Context, roles []string, limit int) ([]string, error)

	calls struct {
		EmailsByRoles []struct {
			Ctx   context.Context
			Roles []string
			Limit int
		}
	}
	lockEmailsByRoles sync.RWMutex
}

func (mock *roleDirectoryMock) EmailsByRoles(ctx context.Context, roles []string, limit int) ([]string, error) {
	if mock.EmailsByRolesFunc == nil {
		panic("roleDirectoryMock.EmailsByRolesFunc: method is nil but roleDirectory.EmailsByRoles was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Roles []string
		Limit int
	}{Ctx: ctx, Roles: roles, Limit: limit}
	mock.lockEmailsByRoles.Lock()
	mock.calls.EmailsByRoles = append(mock.calls.EmailsByRoles, callInfo)
	mock.lockEmailsByRoles.Unlock()
	return mock.EmailsByRolesFunc(ctx, roles, limit)
}

func (mock *roleDirectoryMock) EmailsByRolesCalls() []struct {
	Ctx   context.Context
	Roles []string
	Limit int
} {
	mock.lockEmailsByRoles.RLock()
	defer mock.lockEmailsByRoles.RUnlock()
	return mock.calls.EmailsByRoles
}

// Ensure, that entityReaderMock does implement entityReader.
var _ entityReader = &entityReaderMock{}

type entityReaderMock struct {
	GetFunc func(ctx context.Context, entityType, id string) (*domain.Entity, error)

	calls struct {
		Get []struct {
			Ctx        context.Context
			EntityType string
			ID         string
		}
	}
	lockGet sync.RWMutex
}

func (mock *entityReaderMock) Get(ctx context.Context, entityType, id string) (*domain.Entity, error) {
	if mock.GetFunc == nil {
		panic("entityReaderMock.GetFunc: method is nil but entityReader.Get was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		EntityType string
		ID         string
	}{Ctx: ctx, EntityType: entityType, ID: id}
	mock.lockGet.Lock()
	mock.calls.Get = append(mock.calls.Get, callInfo)
	mock.lockGet.Unlock()
	return mock.GetFunc(ctx, entityType, id)
}

func (mock *entityReaderMock) GetCalls() []struct {
	Ctx        context.Context
	EntityType string
	ID         string
} {
	mock.lockGet.RLock()
	defer mock.lockGet.RUnlock()
	return mock.calls.Get
}
