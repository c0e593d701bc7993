package store

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorMessage(t *testing.T) {
	cases := []struct {
		err  *NotFoundError
		want string
	}{
		{&NotFoundError{Table: "people", IDs: []int64{900}}, "record 900 not found in people"},
		{&NotFoundError{Table: "people", IDs: []int64{2, 3, 4, 900}}, "records not found in people (requested ids: 2, 3, 4, 900)"},
		{&NotFoundError{IDs: []int64{5}}, "record 5 not found"},
		{&NotFoundError{IDs: []int64{0, 0}}, "records not found (requested ids: 0, 0)"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.Error())
	}
}

func TestIsNotFound(t *testing.T) {
	err := &NotFoundError{Table: "people", IDs: []int64{1}}
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("lookup: %w", err)))
	assert.False(t, IsNotFound(fmt.Errorf("some other failure")))
	assert.False(t, IsNotFound(nil))
}
