package infrastructure

import (
	"testing"

	"github.com/DRSN-tech/order-backoffice/pkg/e"
	"github.com/stretchr/testify/assert"
)

func TestGetExtensionFromMIME(t *testing.T) {
	tests := []struct {
		mime string
		want string
	}{
		{mime: "image/jpeg", want: "jpg"},
		{mime: "image/jpg", want: "jpg"},
		{mime: "image/png", want: "png"},
		{mime: "image/webp", want: "webp"},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			ext, err := GetExtensionFromMIME(tt.mime)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, ext)
		})
	}

	_, err := GetExtensionFromMIME("image/gif")
	assert.ErrorIs(t, err, e.ErrUnsupportedMediaType)
}
