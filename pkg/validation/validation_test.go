package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("1122223333"))
	assert.NoError(t, ValidatePhone("5491122223333"))
	assert.NoError(t, ValidatePhone("+54 9 11 2222-3333"), "formatting punctuation is tolerated")
	assert.Error(t, ValidatePhone(""))
	assert.Error(t, ValidatePhone("12345"), "too short")
	assert.Error(t, ValidatePhone("12345678901234567"), "too long")
	assert.Error(t, ValidatePhone("abc1122223333"))
}

func TestStripPhonePunctuation(t *testing.T) {
	assert.Equal(t, "5491122223333", StripPhonePunctuation("+54 9 11 2222-3333"))
	assert.Equal(t, "1122223333", StripPhonePunctuation("(11) 2222 3333"))
	assert.Equal(t, "", StripPhonePunctuation(""))
}

func TestValidateContactName(t *testing.T) {
	assert.NoError(t, ValidateContactName("Ana García"))
	assert.Error(t, ValidateContactName(""))
	assert.Error(t, ValidateContactName("   "))
}

func TestValidateCSVPayload(t *testing.T) {
	assert.NoError(t, ValidateCSVPayload("1122223333,Ana"))
	assert.Error(t, ValidateCSVPayload(""))
	assert.Error(t, ValidateCSVPayload("   \n  "))
}
