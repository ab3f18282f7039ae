package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBasicKindOf(t *testing.T) {
	tests := []struct {
		typ  string
		want basicKind
	}{
		{"int32", basicInteger},
		{"byte", basicInteger},
		{"float64", basicFloat},
		{"bool", basicBool},
		{"string", basicString},
		{"time.Time", basicTime},
		{"time.Duration", basicDuration},
		{"Method", basicNone},
		{"pb.Item", basicNone},
		{"*int32", basicNone},
		{"[]string", basicNone},
	}

	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, basicKindOf(typ(tt.typ)))
		})
	}
}

func TestConvertible(t *testing.T) {
	assert.True(t, convertible(basicInteger, basicFloat))
	assert.True(t, convertible(basicDuration, basicInteger))
	assert.True(t, convertible(basicString, basicString))
	assert.True(t, convertible(basicNone, basicString))
	assert.True(t, convertible(basicInteger, basicNone))

	assert.False(t, convertible(basicInteger, basicString))
	assert.False(t, convertible(basicString, basicFloat))
	assert.False(t, convertible(basicBool, basicInteger))
	assert.False(t, convertible(basicTime, basicInteger))
}
