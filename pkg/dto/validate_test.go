package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		req    interface{}
		fields []string
	}{
		{
			name: "valid register",
			req:  &RegisterRequest{Username: "alice", Email: "alice@example.com", Password: "long-enough"},
		},
		{
			name:   "register missing fields",
			req:    &RegisterRequest{},
			fields: []string{"username is required", "email is required", "password is required"},
		},
		{
			name:   "short password and bad email",
			req:    &RegisterRequest{Username: "alice", Email: "nope", Password: "short"},
			fields: []string{"email must be a valid email", "password must be at least 8 characters"},
		},
		{
			name:   "unknown role",
			req:    &SetRoleRequest{Role: "Owner"},
			fields: []string{"role must be one of: Admin Manager Worker Controller"},
		},
		{
			name:   "assignment ids",
			req:    &AssignTaskRequest{TaskID: "not-a-uuid"},
			fields: []string{"task_id must be a valid id", "user_id is required"},
		},
		{
			name: "invite by email",
			req:  &InviteMemberRequest{Email: "bob@example.com"},
		},
		{
			name:   "invite without target",
			req:    &InviteMemberRequest{},
			fields: []string{"user_id is required", "email is required"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}
}
