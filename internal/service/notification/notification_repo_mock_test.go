package notification

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

// Ensure, that notificationRepoMock does implement notificationRepo.
var _ notificationRepo = &notificationRepoMock{}

type notificationRepoMock struct {
	CreateFunc          func(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	MarkReadFunc        func(ctx context.Context, id uuid.UUID, owner domain.Recipient) error
	MarkAllReadFunc     func(ctx context.Context, owner domain.Recipient) (int, error)
	ListByRecipientFunc func(ctx context.Context, owner domain.Recipient, unreadOnly bool, limit, offset int) ([]domain.Notification, int, error)
	CountUnreadFunc     func(ctx context.Context, owner domain.Recipient) (int, error)

	calls struct {
		Create []struct {
			Ctx context.Context
			N   *domain.Notification
		}
		MarkRead []struct {
			Ctx   context.Context
			ID    uuid.UUID
			Owner domain.Recipient
		}
		MarkAllRead []struct {
			Ctx   context.Context
			Owner domain.Recipient
		}
		ListByRecipient []struct {
			Ctx        context.Context
			Owner      domain.Recipient
			UnreadOnly bool
			Limit      int
			Offset     int
		}
		CountUnread []struct {
			Ctx   context.Context
			Owner domain.Recipient
		}
	}
	lockCreate          sync.RWMutex
	lockMarkRead        sync.RWMutex
	lockMarkAllRead     sync.RWMutex
	lockListByRecipient sync.RWMutex
	lockCountUnread     sync.RWMutex
}

func (mock *notificationRepoMock) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	if mock.CreateFunc == nil {
		panic("notificationRepoMock.CreateFunc: method is nil but notificationRepo.Create was just called")
	}
	callInfo := struct {
		Ctx context.Context
		N   *domain.Notification
	}{Ctx: ctx, N: n}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, callInfo)
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, n)
}

func (mock *notificationRepoMock) CreateCalls() []struct {
	Ctx context.Context
	N   *domain.Notification
} {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *notificationRepoMock) MarkRead(ctx context.Context, id uuid.UUID, owner domain.Recipient) error {
	if mock.MarkReadFunc == nil {
		panic("notificationRepoMock.MarkReadFunc: method is nil but notificationRepo.MarkRead was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		ID    uuid.UUID
		Owner domain.Recipient
	}{Ctx: ctx, ID: id, Owner: owner}
	mock.lockMarkRead.Lock()
	mock.calls.MarkRead = append(mock.calls.MarkRead, callInfo)
	mock.lockMarkRead.Unlock()
	return mock.MarkReadFunc(ctx, id, owner)
}

func (mock *notificationRepoMock) MarkReadCalls() []struct {
	Ctx   context.Context
	ID    uuid.UUID
	Owner domain.Recipient
} {
	mock.lockMarkRead.RLock()
	defer mock.lockMarkRead.RUnlock()
	return mock.calls.MarkRead
}

func (mock *notificationRepoMock) MarkAllRead(ctx context.Context, owner domain.Recipient) (int, error) {
	if mock.MarkAllReadFunc == nil {
		panic("notificationRepoMock.MarkAllReadFunc: method is nil but notificationRepo.MarkAllRead was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner domain.Recipient
	}{Ctx: ctx, Owner: owner}
	mock.lockMarkAllRead.Lock()
	mock.calls.MarkAllRead = append(mock.calls.MarkAllRead, callInfo)
	mock.lockMarkAllRead.Unlock()
	return mock.MarkAllReadFunc(ctx, owner)
}

func (mock *notificationRepoMock) MarkAllReadCalls() []struct {
	Ctx   context.Context
	Owner domain.Recipient
} {
	mock.lockMarkAllRead.RLock()
	defer mock.lockMarkAllRead.RUnlock()
	return mock.calls.MarkAllRead
}

func (mock *notificationRepoMock) ListByRecipient(ctx context.Context, owner domain.Recipient, unreadOnly bool, limit, offset int) ([]domain.Notification, int, error) {
	if mock.ListByRecipientFunc == nil {
		panic("notificationRepoMock.ListByRecipientFunc: method is nil but notificationRepo.ListByRecipient was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Owner      domain.Recipient
		UnreadOnly bool
		Limit      int
		Offset     int
	}{Ctx: ctx, Owner: owner, UnreadOnly: unreadOnly, Limit: limit, Offset: offset}
	mock.lockListByRecipient.Lock()
	mock.calls.ListByRecipient = append(mock.calls.ListByRecipient, callInfo)
	mock.lockListByRecipient.Unlock()
	return mock.ListByRecipientFunc(ctx, owner, unreadOnly, limit, offset)
}

func (mock *notificationRepoMock) ListByRecipientCalls() []struct {
	Ctx        context.Context
	Owner      domain.Recipient
	UnreadOnly bool
	Limit      int
	Offset     int
} {
	mock.lockListByRecipient.RLock()
	defer mock.lockListByRecipient.RUnlock()
	return mock.calls.ListByRecipient
}

func (mock *notificationRepoMock) CountUnread(ctx context.Context, owner domain.Recipient) (int, error) {
	if mock.CountUnreadFunc == nil {
		panic("notificationRepoMock.CountUnreadFunc: method is nil but notificationRepo.CountUnread was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Owner domain.Recipient
	}{Ctx: ctx, Owner: owner}
	mock.lockCountUnread.Lock()
	mock.calls.CountUnread = append(mock.calls.CountUnread, callInfo)
	mock.lockCountUnread.Unlock()
	return mock.CountUnreadFunc(ctx, owner)
}

func (mock *notificationRepoMock) CountUnreadCalls() []struct {
	Ctx   context.Context
	Owner domain.Recipient
} {
	mock.lockCountUnread.RLock()
	defer mock.lockCountUnread.RUnlock()
	return mock.calls.CountUnread
}
