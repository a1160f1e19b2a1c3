package authsdk_test

import (
	"encoding/json"
	"testing"

	"github.com/aussiebroadwan/otpauth/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestCodeUnmarshal(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    authsdk.Code
		wantErr bool
	}{
		{"string", `{"code":"004821"}`, "004821", false},
		{"number", `{"code":4821}`, "4821", false},
		{"null", `{"code":null}`, "", false},
		{"missing", `{}`, "", false},
		{"bool", `{"code":true}`, "", true},
		{"object", `{"code":{"a":1}}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req authsdk.VerifyOTPRequest
			err := json.Unmarshal([]byte(tt.in), &req)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, req.Code)
		})
	}
}

func TestCodeMarshalsAsString(t *testing.T) {
	out, err := json.Marshal(authsdk.VerifyOTPRequest{Code: "012345"})
	require.NoError(t, err)
	require.JSONEq(t, `{"code":"012345"}`, string(out))
}
