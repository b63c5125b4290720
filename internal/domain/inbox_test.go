package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInboxMode(t *testing.T) {
	cases := []struct {
		input string
		want  InboxMode
	}{
		{"selling", InboxModeSelling},
		{"SELLING", InboxModeSelling},
		{" selling ", InboxModeSelling},
		{"buying", InboxModeBuying},
		{"", InboxModeBuying},
		{"anything-else", InboxModeBuying},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseInboxMode(tc.input), "input %q", tc.input)
	}
}

func TestInboxModeString(t *testing.T) {
	assert.Equal(t, "selling", InboxModeSelling.String())
	assert.Equal(t, "buying", InboxModeBuying.String())
}
