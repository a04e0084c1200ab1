package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

func TestHandleFromEmail(t *testing.T) {
	tests := []struct {
		email string
		want  string
	}{
		{email: "jordan@example.com", want: "jordan"},
		{email: "casey.lin@company.example.com", want: "casey.lin"},
		{email: "no-at-sign", want: "no-at-sign"},
		{email: "@example.com", want: "@example.com"},
		{email: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			gt.Value(t, model.HandleFromEmail(tt.email)).Equal(tt.want)
		})
	}
}

func TestNewPlaceholderCredential(t *testing.T) {
	first := model.NewPlaceholderCredential()
	second := model.NewPlaceholderCredential()

	gt.Value(t, first).NotEqual("")
	gt.Value(t, first).NotEqual(second)
}

func TestUserIsDeactivated(t *testing.T) {
	user := &model.User{Status: types.AccountStatusActive}
	gt.Value(t, user.IsDeactivated()).Equal(false)

	user.Status = types.AccountStatusDeactivated
	gt.Value(t, user.IsDeactivated()).Equal(true)
}
