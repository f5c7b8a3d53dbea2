package iec104

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewSessionParameters_Defaults(t *testing.T) {
	p, err := NewSessionParameters()
	assert.Nil(t, err)
	assert.EqualValues(t, DefaultK, p.K)
	assert.EqualValues(t, DefaultW, p.W)
	assert.EqualValues(t, DefaultT0, p.T0)
}

func TestNewSessionParameters_WithOptions(t *testing.T) {
	p, err := NewSessionParameters(WithWindow(5, 2), WithTimeouts(time.Second, time.Second, 500*time.Millisecond, 2*time.Second))
	assert.Nil(t, err)
	assert.EqualValues(t, 5, p.K)
	assert.EqualValues(t, 2, p.W)
	assert.EqualValues(t, time.Second, p.T1)
}

func TestNewSessionParameters_RejectsWEqualToK(t *testing.T) {
	_, err := NewSessionParameters(WithWindow(4, 4))
	assert.NotNil(t, err)
}

func TestNewSessionParameters_AllowsT2EqualT1(t *testing.T) {
	_, err := NewSessionParameters(WithTimeouts(time.Second, time.Second, time.Second, time.Second))
	assert.Nil(t, err)
}

func TestNewSessionParameters_RejectsT2GreaterThanT1(t *testing.T) {
	_, err := NewSessionParameters(WithTimeouts(time.Second, time.Second, 2*time.Second, time.Second))
	assert.NotNil(t, err)
}

func TestNewSessionParameters_RejectsNonPositiveWindow(t *testing.T) {
	_, err := NewSessionParameters(WithWindow(0, 0))
	assert.NotNil(t, err)
}

func TestWithParamDefaults_FillsOnlyZeroFields(t *testing.T) {
	p := withParamDefaults(SessionParameters{K: 7})
	assert.EqualValues(t, 7, p.K)
	assert.EqualValues(t, DefaultW, p.W)
	assert.EqualValues(t, DefaultT1, p.T1)
}
