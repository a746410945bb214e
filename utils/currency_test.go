package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatCurrencyJPY(t *testing.T) {
	assert.Equal(t, "0円", FormatCurrencyJPY(0))
	assert.Equal(t, "900円", FormatCurrencyJPY(900))
	assert.Equal(t, "1,800円", FormatCurrencyJPY(1800))
	assert.Equal(t, "15,000円", FormatCurrencyJPY(15000))
	assert.Equal(t, "1,234,568円", FormatCurrencyJPY(1234567.6))
	assert.Equal(t, "-2,500円", FormatCurrencyJPY(-2500))
}
