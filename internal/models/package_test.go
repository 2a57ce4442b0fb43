package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPackageStatusCanTransition(t *testing.T) {
	cases := []struct {
		name string
		from PackageStatus
		to   PackageStatus
		ok   bool
	}{
		{"searching to waiting_payment", PkgSearching, PkgWaitingPayment, true},
		{"waiting_payment to waiting_pickup", PkgWaitingPayment, PkgWaitingPickup, true},
		{"waiting_pickup to transit", PkgWaitingPickup, PkgTransit, true},
		{"transit to waiting_delivery", PkgTransit, PkgWaitingDelivery, true},
		{"waiting_delivery to delivered", PkgWaitingDelivery, PkgDelivered, true},
		{"cannot skip payment", PkgSearching, PkgWaitingPickup, false},
		{"cannot skip to delivered", PkgTransit, PkgDelivered, false},
		{"no backward move", PkgTransit, PkgWaitingPickup, false},
		{"no self transition", PkgTransit, PkgTransit, false},
		{"cancel from searching", PkgSearching, PkgCanceled, true},
		{"cancel from transit", PkgTransit, PkgCanceled, true},
		{"delivered is terminal", PkgDelivered, PkgCanceled, false},
		{"canceled is terminal", PkgCanceled, PkgSearching, false},
		{"canceled cannot recancel", PkgCanceled, PkgCanceled, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.ok, tc.from.CanTransition(tc.to))
		})
	}
}

func TestTerminal(t *testing.T) {
	assert.True(t, PkgDelivered.Terminal())
	assert.True(t, PkgCanceled.Terminal())
	assert.False(t, PkgSearching.Terminal())
	assert.False(t, PkgWaitingDelivery.Terminal())
}
