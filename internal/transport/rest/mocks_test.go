package rest

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/notify-backend/internal/domain"
	"github.com/heartmarshall/notify-backend/internal/service/approval"
	"github.com/heartmarshall/notify-backend/internal/service/notification"
	"github.com/heartmarshall/notify-backend/internal/service/push"
)

//go:generate moq -out mocks_test.go -pkg rest . notificationService pushService changeHandler approvalService

// Ensure, that notificationServiceMock does implement notificationService.
var _ notificationService = &notificationServiceMock{}

type notificationServiceMock struct {
	CreateFunc      func(ctx context.Context, input notification.CreateInput) (uuid.UUID, error)
	ListFunc        func(ctx context.Context, input notification.ListInput) (*notification.Page, error)
	UnreadCountFunc func(ctx context.Context) (int, error)
	MarkReadFunc    func(ctx context.Context, input notification.MarkReadInput) error
	MarkAllReadFunc func(ctx context.Context) (int, error)

	calls struct {
		Create []struct {
			Ctx   context.Context
			Input notification.CreateInput
		}
		List []struct {
			Ctx   context.Context
			Input notification.ListInput
		}
		MarkRead []struct {
			Ctx   context.Context
			Input notification.MarkReadInput
		}
	}
	lockCreate   sync.RWMutex
	lockList     sync.RWMutex
	lockMarkRead sync.RWMutex
}

func (mock *notificationServiceMock) Create(ctx context.Context, input notification.CreateInput) (uuid.UUID, error) {
	if mock.CreateFunc == nil {
		panic("notificationServiceMock.CreateFunc: method is nil but notificationService.Create was just called")
	}
	mock.lockCreate.Lock()
	mock.calls.Create = append(mock.calls.Create, struct {
		Ctx   context.Context
		Input notification.CreateInput
	}{Ctx: ctx, Input: input})
	mock.lockCreate.Unlock()
	return mock.CreateFunc(ctx, input)
}

func (mock *notificationServiceMock) CreateCalls() []struct {
	Ctx   context.Context
	Input notification.CreateInput
} {
	mock.lockCreate.RLock()
	defer mock.lockCreate.RUnlock()
	return mock.calls.Create
}

func (mock *notificationServiceMock) List(ctx context.Context, input notification.ListInput) (*notification.Page, error) {
	if mock.ListFunc == nil {
		panic("notificationServiceMock.ListFunc: method is nil but notificationService.List was just called")
	}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, struct {
		Ctx   context.Context
		Input notification.ListInput
	}{Ctx: ctx, Input: input})
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, input)
}

func (mock *notificationServiceMock) ListCalls() []struct {
	Ctx   context.Context
	Input notification.ListInput
} {
	mock.lockList.RLock()
	defer mock.lockList.RUnlock()
	return mock.calls.List
}

func (mock *notificationServiceMock) UnreadCount(ctx context.Context) (int, error) {
	if mock.UnreadCountFunc == nil {
		panic("notificationServiceMock.UnreadCountFunc: method is nil but notificationService.UnreadCount was just called")
	}
	return mock.UnreadCountFunc(ctx)
}

func (mock *notificationServiceMock) MarkRead(ctx context.Context, input notification.MarkReadInput) error {
	if mock.MarkReadFunc == nil {
		panic("notificationServiceMock.MarkReadFunc: method is nil but notificationService.MarkRead was just called")
	}
	mock.lockMarkRead.Lock()
	mock.calls.MarkRead = append(mock.calls.MarkRead, struct {
		Ctx   context.Context
		Input notification.MarkReadInput
	}{Ctx: ctx, Input: input})
	mock.lockMarkRead.Unlock()
	return mock.MarkReadFunc(ctx, input)
}

func (mock *notificationServiceMock) MarkReadCalls() []struct {
	Ctx   context.Context
	Input notification.MarkReadInput
} {
	mock.lockMarkRead.RLock()
	defer mock.lockMarkRead.RUnlock()
	return mock.calls.MarkRead
}

func (mock *notificationServiceMock) MarkAllRead(ctx context.Context) (int, error) {
	if mock.MarkAllReadFunc == nil {
		panic("notificationServiceMock.MarkAllReadFunc: method is nil but notificationService.MarkAllRead was just called")
	}
	return mock.MarkAllReadFunc(ctx)
}

// Ensure, that pushServiceMock does implement pushService.
var _ pushService = &pushServiceMock{}

type pushServiceMock struct {
	SubscribeFunc   func(ctx context.Context, input push.SubscribeInput) (*domain.PushSubscription, error)
	UnsubscribeFunc func(ctx context.Context, owner domain.Recipient, endpoint string) error
	PublicKeyFunc   func() (string, error)
	DeliverFunc     func(ctx context.Context, to domain.Recipient, m push.Message) (push.Result, error)
	DeliverToFunc   func(ctx context.Context, subs []domain.PushSubscription, m push.Message) (push.Result, error)

	calls struct {
		Subscribe []struct {
			Ctx   context.Context
			Input push.SubscribeInput
		}
		Unsubscribe []struct {
			Ctx      context.Context
			Owner    domain.Recipient
			Endpoint string
		}
		Deliver []struct {
			Ctx context.Context
			To  domain.Recipient
			M   push.Message
		}
		DeliverTo []struct {
			Ctx  context.Context
			Subs []domain.PushSubscription
			M    push.Message
		}
	}
	lockSubscribe   sync.RWMutex
	lockUnsubscribe sync.RWMutex
	lockDeliver     sync.RWMutex
	lockDeliverTo   sync.RWMutex
}

func (mock *pushServiceMock) Subscribe(ctx context.Context, input push.SubscribeInput) (*domain.PushSubscription, error) {
	if mock.SubscribeFunc == nil {
		panic("pushServiceMock.SubscribeFunc: method is nil but pushService.Subscribe was just called")
	}
	mock.lockSubscribe.Lock()
	mock.calls.Subscribe = append(mock.calls.Subscribe, struct {
		Ctx   context.Context
		Input push.SubscribeInput
	}{Ctx: ctx, Input: input})
	mock.lockSubscribe.Unlock()
	return mock.SubscribeFunc(ctx, input)
}

func (mock *pushServiceMock) SubscribeCalls() []struct {
	Ctx   context.Context
	Input push.SubscribeInput
} {
	mock.lockSubscribe.RLock()
	defer mock.lockSubscribe.RUnlock()
	return mock.calls.Subscribe
}

func (mock *pushServiceMock) Unsubscribe(ctx context.Context, owner domain.Recipient, endpoint string) error {
	if mock.UnsubscribeFunc == nil {
		panic("pushServiceMock.UnsubscribeFunc: method is nil but pushService.Unsubscribe was just called")
	}
	mock.lockUnsubscribe.Lock()
	mock.calls.Unsubscribe = append(mock.calls.Unsubscribe, struct {
		Ctx      context.Context
		Owner    domain.Recipient
		Endpoint string
	}{Ctx: ctx, Owner: owner, Endpoint: endpoint})
	mock.lockUnsubscribe.Unlock()
	return mock.UnsubscribeFunc(ctx, owner, endpoint)
}

func (mock *pushServiceMock) UnsubscribeCalls() []struct {
	Ctx      context.Context
	Owner    domain.Recipient
	Endpoint string
} {
	mock.lockUnsubscribe.RLock()
	defer mock.lockUnsubscribe.RUnlock()
	return mock.calls.Unsubscribe
}

func (mock *pushServiceMock) PublicKey() (string, error) {
	if mock.PublicKeyFunc == nil {
		panic("pushServiceMock.PublicKeyFunc: method is nil but pushService.PublicKey was just called")
	}
	return mock.PublicKeyFunc()
}

func (mock *pushServiceMock) Deliver(ctx context.Context, to domain.Recipient, m push.Message) (push.Result, error) {
	if mock.DeliverFunc == nil {
		panic("pushServiceMock.DeliverFunc: method is nil but pushService.Deliver was just called")
	}
	mock.lockDeliver.Lock()
	mock.calls.Deliver = append(mock.calls.Deliver, struct {
		Ctx context.Context
		To  domain.Recipient
		M   push.Message
	}{Ctx: ctx, To: to, M: m})
	mock.lockDeliver.Unlock()
	return mock.DeliverFunc(ctx, to, m)
}

func (mock *pushServiceMock) DeliverCalls() []struct {
	Ctx context.Context
	To  domain.Recipient
	M   push.Message
} {
	mock.lockDeliver.RLock()
	defer mock.lockDeliver.RUnlock()
	return mock.calls.Deliver
}

func (mock *pushServiceMock) DeliverTo(ctx context.Context, subs []domain.PushSubscription, m push.Message) (push.Result, error) {
	if mock.DeliverToFunc == nil {
		panic("pushServiceMock.DeliverToFunc: method is nil but pushService.DeliverTo was just called")
	}
	mock.lockDeliverTo.Lock()
	mock.calls.DeliverTo = append(mock.calls.DeliverTo, struct {
		Ctx  context.Context
		Subs []domain.PushSubscription
		M    push.Message
	}{Ctx: ctx, Subs: subs, M: m})
	mock.lockDeliverTo.Unlock()
	return mock.DeliverToFunc(ctx, subs, m)
}

func (mock *pushServiceMock) DeliverToCalls() []struct {
	Ctx  context.Context
	Subs []domain.PushSubscription
	M    push.Message
} {
	mock.lockDeliverTo.RLock()
	defer mock.lockDeliverTo.RUnlock()
	return mock.calls.DeliverTo
}

// Ensure, that changeHandlerMock does implement changeHandler.
var _ changeHandler = &changeHandlerMock{}

type changeHandlerMock struct {
	WatchesFunc func(entityType string) bool
	HandleFunc  func(ctx context.Context, ev domain.ChangeEvent) error

	calls struct {
		Handle []struct {
			Ctx context.Context
			Ev  domain.ChangeEvent
		}
	}
	lockHandle sync.RWMutex
}

func (mock *changeHandlerMock) Watches(entityType string) bool {
	if mock.WatchesFunc == nil {
		panic("changeHandlerMock.WatchesFunc: method is nil but changeHandler.Watches was just called")
	}
	return mock.WatchesFunc(entityType)
}

func (mock *changeHandlerMock) Handle(ctx context.Context, ev domain.ChangeEvent) error {
	if mock.HandleFunc == nil {
		panic("changeHandlerMock.HandleFunc: method is nil but changeHandler.Handle was just called")
	}
	mock.lockHandle.Lock()
	mock.calls.Handle = append(mock.calls.Handle, struct {
		Ctx context.Context
		Ev  domain.ChangeEvent
	}{Ctx: ctx, Ev: ev})
	mock.lockHandle.Unlock()
	return mock.HandleFunc(ctx, ev)
}

func (mock *changeHandlerMock) HandleCalls() []struct {
	Ctx context.Context
	Ev  domain.ChangeEvent
} {
	mock.lockHandle.RLock()
	defer mock.lockHandle.RUnlock()
	return mock.calls.Handle
}

// Ensure, that approvalServiceMock does implement approvalService.
var _ approvalService = &approvalServiceMock{}

type approvalServiceMock struct {
	ApproveFunc func(ctx context.Context, input approval.TransitionInput) (*domain.Entity, error)
	RejectFunc  func(ctx context.Context, input approval.TransitionInput) (*domain.Entity, error)

	calls struct {
		Approve []struct {
			Ctx   context.Context
			Input approval.TransitionInput
		}
		Reject []struct {
			Ctx   context.Context
			Input approval.TransitionInput
		}
	}
	lockApprove sync.RWMutex
	lockReject  sync.RWMutex
}

func (mock *approvalServiceMock) Approve(ctx context.Context, input approval.TransitionInput) (*domain.Entity, error) {
	if mock.ApproveFunc == nil {
		panic("approvalServiceMock.ApproveFunc: method is nil but approvalService.Approve was just called")
	}
	mock.lockApprove.Lock()
	mock.calls.Approve = append(mock.calls.Approve, struct {
		Ctx   context.Context
		Input approval.TransitionInput
	}{Ctx: ctx, Input: input})
	mock.lockApprove.Unlock()
	return mock.ApproveFunc(ctx, input)
}

func (mock *approvalServiceMock) ApproveCalls() []struct {
	Ctx   context.Context
	Input approval.TransitionInput
} {
	mock.lockApprove.RLock()
	defer mock.lockApprove.RUnlock()
	return mock.calls.Approve
}

func (mock *approvalServiceMock) Reject(ctx context.Context, input approval.TransitionInput) (*domain.Entity, error) {
	if mock.RejectFunc == nil {
		panic("approvalServiceMock.RejectFunc: method is nil but approvalService.Reject was just called")
	}
	mock.lockReject.Lock()
	mock.calls.Reject = append(mock.calls.Reject, struct {
		Ctx   context.Context
		Input approval.TransitionInput
	}{Ctx: ctx, Input: input})
	mock.lockReject.Unlock()
	return mock.RejectFunc(ctx, input)
}

func (mock *approvalServiceMock) RejectCalls() []struct {
	Ctx   context.Context
	Input approval.TransitionInput
} {
	mock.lockReject.RLock()
	defer mock.lockReject.RUnlock()
	return mock.calls.Reject
}
