package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playlistRequest struct {
	UserID   int64    `json:"user_id" validate:"required,gt=0"`
	Target   int      `json:"target_duration_min" validate:"gt=0"`
	MaxItems int      `json:"max_items" validate:"min=1,max=100"`
	Langs    []string `json:"langs" validate:"dive,oneof=ja en ko"`
}

func TestStruct_OK(t *testing.T) {
	err := Struct(&playlistRequest{UserID: 1, Target: 30, MaxItems: 20, Langs: []string{"ja"}})
	assert.NoError(t, err)
}

func TestStruct_ReportsJSONNames(t *testing.T) {
	err := Struct(&playlistRequest{Target: 0, MaxItems: 101, Langs: []string{"fr"}})
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))

	fields := map[string]string{}
	for _, f := range verr.Fields {
		fields[f.Field] = f.Tag
	}
	assert.Equal(t, "required", fields["user_id"])
	assert.Equal(t, "gt", fields["target_duration_min"])
	assert.Equal(t, "max", fields["max_items"])
	assert.Equal(t, "oneof", fields["langs[0]"])
	assert.Contains(t, err.Error(), "max_items must be at most 100")
}
