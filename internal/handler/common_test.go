package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskCard(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"4111111111111234", "**** **** **** 1234"},
		{"4111 1111 1111 1234", "**** **** **** 1234"},
		{"4111-1111-1111-1234", "**** **** **** 1234"},
		{"", "CASH"},
		{"12", "CASH"},
		{"abcd", "CASH"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, maskCard(tc.in), "input %q", tc.in)
	}
}
