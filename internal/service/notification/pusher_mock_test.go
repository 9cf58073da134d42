package notification

import (
	"context"
	"sync"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/push"
)

// Ensure, that pusherMock does implement pusher.
var _ pusher = &pusherMock{}

type pusherMock struct {
	DeliverFunc func(ctx context.Context, to domain.Recipient, m push.Message) (push.Result, error)

	calls struct {
		Deliver []struct {
			Ctx context.Context
			To  domain.Recipient
			M   push.Message
		}
	}
	lockDeliver sync.RWMutex
}

func (mock *pusherMock) Deliver(ctx context.Context, to domain.Recipient, m push.Message) (push.Result, error) {
	if mock.DeliverFunc == nil {
		panic("pusherMock.DeliverFunc: method is nil but pusher.Deliver was just called")
	}
	callInfo := struct {
		Ctx context.Context
		To  domain.Recipient
		M   push.Message
	}{Ctx: ctx, To: to, M: m}
	mock.lockDeliver.Lock()
	mock.calls.Deliver = append(mock.calls.Deliver, callInfo)
	mock.lockDeliver.Unlock()
	return mock.DeliverFunc(ctx, to, m)
}

func (mock *pusherMock) DeliverCalls() []struct {
	Ctx context.Context
	To  domain.Recipient
	M   push.Message
} {
	mock.lockDeliver.RLock()
	defer mock.lockDeliver.RUnlock()
	return mock.calls.Deliver
}

// Ensure, that emailDirectoryMock does implement emailDirectory.
var _ emailDirectory = &emailDirectoryMock{}

type emailDirectoryMock struct {
	EmailByIDFunc func(ctx context.Context, userID string) (string, error)

	calls struct {
		EmailByID []struct {
			Ctx    context.Context
			UserID string
		}
	}
	lockEmailByID sync.RWMutex
}

func (mock *emailDirectoryMock) EmailByID(ctx context.Context, userID string) (string, error) {
	if mock.EmailByIDFunc == nil {
		panic("emailDirectoryMock.EmailByIDFunc: method is nil but emailDirectory.EmailByID was just called")
	}
	callInfo := struct {
		Ctx    context.Context
		UserID string
	}{Ctx: ctx, UserID: userID}
	mock.lockEmailByID.Lock()
	mock.calls.EmailByID = append(mock.calls.EmailByID, callInfo)
	mock.lockEmailByID.Unlock()
	return mock.EmailByIDFunc(ctx, userID)
}

func (mock *emailDirectoryMock) EmailByIDCalls() []struct {
	Ctx    context.Context
	UserID string
} {
	mock.lockEmailByID.RLock()
	defer mock.lockEmailByID.RUnlock()
	return mock.calls.EmailByID
}
