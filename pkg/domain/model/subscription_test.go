package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/panoptes/pkg/domain/model"
)

func TestIsPresenceSubscription(t *testing.T) {
	cases := []struct {
		name     string
		resource string
		expect   bool
	}{
		{
			name:     "presence filter",
			resource: model.PresenceResourcePrefix + "id in ('a','b')",
			expect:   true,
		},
		{
			name:     "other resource",
			resource: "/teams/allMessages",
			expect:   false,
		},
		{
			name:     "presence without filter",
			resource: "/communications/presences",
			expect:   false,
		},
		{
			name:     "empty resource",
			resource: "",
			expect:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := &model.Subscription{Resource: tc.resource}
			gt.Value(t, sub.IsPresenceSubscription()).Equal(tc.expect)
		})
	}
}
