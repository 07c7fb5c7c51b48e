package validation

import (
	"testing"

	"learnflow/internal/domain"
	"learnflow/internal/dto"
	"learnflow/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestValidateStruct(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		name      string
		input     interface{}
		wantField string
		wantCode  domain.ErrorCode
	}{
		{"answer ok", dto.SelectAnswerRequest{OptionID: "a"}, "", ""},
		{"answer missing", dto.SelectAnswerRequest{}, "option_id", domain.CodeMissingField},
		{"seek ok at zero", dto.SeekRequest{Percent: ptr(0)}, "", ""},
		{"seek missing", dto.SeekRequest{}, "percent", domain.CodeMissingField},
		{"seek too high", dto.SeekRequest{Percent: ptr(100.5)}, "percent", domain.CodeOutOfRange},
		{"volume negative", dto.VolumeRequest{Level: ptr(-0.1)}, "level", domain.CodeOutOfRange},
		{"volume ok", dto.VolumeRequest{Level: ptr(1)}, "", ""},
		{"pointer ok", dto.PointerRequest{Event: dto.PointerLeave}, "", ""},
		{"pointer unknown", dto.PointerRequest{Event: "click"}, "event", domain.CodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := v.ValidateStruct(tt.input)
			if tt.wantField == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, tt.wantField, errs[0].Field)
			assert.Equal(t, tt.wantCode, errs[0].Code)
		})
	}
}

func TestValidateCatalogID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateCatalogID("quiz_id", "1"))
	assert.Empty(t, v.ValidateCatalogID("lesson_id", "l12"))

	errs := v.ValidateCatalogID("quiz_id", " ")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeMissingField, errs[0].Code)

	errs = v.ValidateCatalogID("quiz_id", "../etc")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
}

func TestValidateULID(t *testing.T) {
	v := NewValidator()

	assert.Empty(t, v.ValidateULID("session_id", util.NewULID()))

	errs := v.ValidateULID("session_id", "")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeMissingField, errs[0].Code)

	errs = v.ValidateULID("session_id", "abc")
	require.Len(t, errs, 1)
	assert.Equal(t, domain.CodeInvalidFormat, errs[0].Code)
	assert.Equal(t, "session_id", errs[0].Field)
}
