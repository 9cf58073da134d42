package push

import (
	"context"
	"sync"

	"github.com/heartmarshall/notify-backend/internal/domain"
)

// Ensure, that senderMock does implement sender.
var _ sender = &senderMock{}

type senderMock struct {
	ConfiguredFunc func() bool
	PublicKeyFunc  func() string
	SendFunc       func(ctx context.Context, sub domain.PushSubscription, payload []byte, priority domain.NotificationPriority) error

	calls struct {
		Send []struct {
			Ctx      context.Context
			Sub      domain.PushSubscription
			Payload  []byte
			Priority domain.NotificationPriority
		}
	}
	lockSend sync.RWMutex
}

func (mock *senderMock) Configured() bool {
	if mock.ConfiguredFunc == nil {
		panic("senderMock.ConfiguredFunc: method is nil but sender.Configured was just called")
	}
	return mock.ConfiguredFunc()
}

func (mock *senderMock) PublicKey() string {
	if mock.PublicKeyFunc == nil {
		panic("senderMock.PublicKeyFunc: method is nil but sender.PublicKey was just called")
	}
	return mock.PublicKeyFunc()
}

func (mock *senderMock) Send(ctx context.Context, sub domain.PushSubscription, payload []byte, priority domain.NotificationPriority) error {
	if mock.SendFunc == nil {
		panic("senderMock.SendFunc: method is nil but sender.Send was just called")
	}
	callInfo := struct {
		Ctx      context.Context
		Sub      domain.PushSubscription
		Payload  []byte
		Priority domain.NotificationPriority
	}{Ctx: ctx, Sub: sub, Payload: payload, Priority: priority}
	mock.lockSend.Lock()
	mock.calls.Send = append(mock.calls.Send, callInfo)
	mock.lockSend.Unlock()
	return mock.SendFunc(ctx, sub, payload, priority)
}

func (mock *senderMock) SendCalls() []struct {
	Ctx      context.Context
	Sub      domain.PushSubscription
	Payload  []byte
	Priority domain.NotificationPriority
} {
	mock.lockSend.RLock()
	defer mock.lockSend.RUnlock()
	return mock.calls.Send
}
