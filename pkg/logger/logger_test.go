package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_JSONOutputRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Env: "production", Level: "warn", Output: &buf})

	l.Info().Msg("oculto")
	l.Warn().Str("k", "v").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "oculto")
	assert.Contains(t, out, `"message":"visible"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("request_id", "abc").Logger()
	ctx := WithContext(context.Background(), zl)

	FromContext(ctx).Info().Msg("hola")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)

	assert.NotNil(t, FromContext(context.Background()))
}
