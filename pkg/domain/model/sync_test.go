package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/23blocks-OS/platform-sync/pkg/domain/model"
	"github.com/23blocks-OS/platform-sync/pkg/domain/types"
)

func TestSyncRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		record  model.SyncRecord
		wantErr error
	}{
		{
			name: "valid record",
			record: model.SyncRecord{
				ExternalID: "plt-1001",
				Email:      "jordan@example.com",
				Name:       "Jordan Reyes",
			},
			wantErr: nil,
		},
		{
			name: "valid record without name",
			record: model.SyncRecord{
				ExternalID: "plt-1002",
				Email:      "casey@example.com",
			},
			wantErr: nil,
		},
		{
			name: "missing external ID",
			record: model.SyncRecord{
				Email: "jordan@example.com",
			},
			wantErr: types.ErrInvalidRecord,
		},
		{
			name: "missing email",
			record: model.SyncRecord{
				ExternalID: "plt-1003",
			},
			wantErr: types.ErrInvalidRecord,
		},
		{
			name: "malformed email",
			record: model.SyncRecord{
				ExternalID: "plt-1004",
				Email:      "not-an-email",
			},
			wantErr: types.ErrInvalidRecord,
		},
		{
			name: "email without local part",
			record: model.SyncRecord{
				ExternalID: "plt-1005",
				Email:      "@example.com",
			},
			wantErr: types.ErrInvalidRecord,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.record.Validate()
			if tt.wantErr == nil {
				gt.NoError(t, err)
				return
			}
			gt.Value(t, err).NotNil()
			gt.Error(t, err).Is(tt.wantErr)
		})
	}
}
