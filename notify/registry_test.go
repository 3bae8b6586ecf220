package notify

import (
	"testing"

	"github.com/KiraleTech/KiTools/kbi"
	"github.com/stretchr/testify/assert"
)

func TestRegistryDispatchesKindThenFirehose(t *testing.T) {
	r := NewRegistry()
	var kindSeen, firehoseSeen bool

	r.RegisterKind(kbi.KindDestUnreachable, ReceiverFunc(func(n kbi.Notification) bool {
		kindSeen = true
		return true
	}))
	r.RegisterAll(ReceiverFunc(func(n kbi.Notification) bool {
		firehoseSeen = true
		return true
	}))

	r.Dispatch(kbi.Notification{Kind: kbi.KindDestUnreachable})
	assert.True(t, kindSeen)
	assert.True(t, firehoseSeen)
}

func TestRegistryKindHandlerCanStopDispatch(t *testing.T) {
	r := NewRegistry()
	var firehoseSeen bool

	r.RegisterKind(kbi.KindPingReply, ReceiverFunc(func(n kbi.Notification) bool {
		return false
	}))
	r.RegisterAll(ReceiverFunc(func(n kbi.Notification) bool {
		firehoseSeen = true
		return true
	}))

	r.Dispatch(kbi.Notification{Kind: kbi.KindPingReply})
	assert.False(t, firehoseSeen)
}
