package usecase

import (
	"testing"
	"time"

	"tripstore/internal/backend"
	"tripstore/internal/domain/entity"
	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestMigrationRequest_ToOptions(t *testing.T) {
	base := DefaultMigrationOptions(backend.RelationalToDocument)
	base.Workers = 6

	tests := []struct {
		name    string
		req     MigrationRequest
		check   func(t *testing.T, opts MigrationOptions)
		wantErr error
	}{
		{
			name: "defaults expand to every entity type",
			req:  MigrationRequest{Direction: "document_to_relational"},
			check: func(t *testing.T, opts MigrationOptions) {
				assert.Equal(t, backend.DocumentToRelational, opts.Direction)
				assert.Equal(t, entity.AllEntityTypes(), opts.EntityTypes)
				assert.Equal(t, DefaultBatchSize, opts.BatchSize)
				assert.Equal(t, 6, opts.Workers)
				assert.True(t, opts.ContinueOnError)
				assert.True(t, opts.ValidateAfter)
				assert.Equal(t, DefaultPageTimeout, opts.PageTimeout)
			},
		},
		{
			name: "explicit values override defaults",
			req: MigrationRequest{
				Direction:       " Relational_To_Document ",
				EntityTypes:     []string{"reviews", "Review", "place"},
				BatchSize:       25,
				ContinueOnError: ptr(false),
				ValidateAfter:   ptr(false),
				SampleSize:      ptr(0),
				Strict:          true,
				PageTimeout:     "5s",
			},
			check: func(t *testing.T, opts MigrationOptions) {
				assert.Equal(t, []entity.EntityType{entity.TypeReview, entity.TypePlace}, opts.EntityTypes)
				assert.Equal(t, 25, opts.BatchSize)
				assert.False(t, opts.ContinueOnError)
				assert.False(t, opts.ValidateAfter)
				assert.Zero(t, opts.SampleSize)
				assert.True(t, opts.Strict)
				assert.Equal(t, 5*time.Second, opts.PageTimeout)
			},
		},
		{
			name:    "unknown direction",
			req:     MigrationRequest{Direction: "sideways"},
			wantErr: domainerrors.ErrValidationFailed,
		},
		{
			name:    "unknown entity type",
			req:     MigrationRequest{Direction: "relational_to_document", EntityTypes: []string{"Hotel"}},
			wantErr: domainerrors.ErrUnknownEntityType,
		},
		{
			name:    "bad page timeout",
			req:     MigrationRequest{Direction: "relational_to_document", PageTimeout: "-1s"},
			wantErr: domainerrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := tt.req.ToOptions(base)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))

				return
			}
			require.NoError(t, err)
			tt.check(t, opts)
		})
	}
}

func TestMigrationResult_Totals(t *testing.T) {
	r := &MigrationResult{Entities: []EntityResult{
		{EntityType: entity.TypeUser, ProcessedCount: 3, ErrorCount: 1},
		{EntityType: entity.TypeReview, ProcessedCount: 2},
	}}

	assert.Equal(t, int64(5), r.TotalProcessed())
	assert.Equal(t, int64(1), r.TotalErrors())

	got, ok := r.Entity(entity.TypeReview)
	require.True(t, ok)
	assert.Equal(t, int64(2), got.ProcessedCount)

	_, ok = r.Entity(entity.TypePlace)
	assert.False(t, ok)
}
