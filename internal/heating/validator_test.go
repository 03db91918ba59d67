package heating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		req     Request
		wantErr bool
	}{
		{name: "on", secret: "s3cret", req: Request{Token: "s3cret", Command: CommandOn}},
		{name: "off", secret: "s3cret", req: Request{Token: "s3cret", Command: CommandOff}},
		{name: "status", secret: "s3cret", req: Request{Token: "s3cret", Command: CommandStatus}},
		{name: "channel not checked", secret: "s3cret", req: Request{Token: "s3cret", Command: CommandOn, ChannelName: "random"}},
		{name: "wrong token", secret: "s3cret", req: Request{Token: "nope", Command: CommandOn}, wantErr: true},
		{name: "missing token", secret: "s3cret", req: Request{Command: CommandOn}, wantErr: true},
		{name: "token prefix", secret: "s3cret", req: Request{Token: "s3cre", Command: CommandOn}, wantErr: true},
		{name: "unsupported command", secret: "s3cret", req: Request{Token: "s3cret", Command: "/licht_an"}, wantErr: true},
		{name: "empty secret rejects empty token", secret: "", req: Request{Command: CommandOn}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidator(tt.secret).Validate(tt.req)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			assert.NoError(t, err)
		})
	}
}
