package json

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
		want    string
	}{
		{
			name: "single object",
			body: `{"name":"pasta"}`,
			want: "pasta",
		},
		{
			name:    "trailing object rejected",
			body:    `{"name":"pasta"}{"name":"soup"}`,
			wantErr: true,
		},
		{
			name:    "trailing garbage rejected",
			body:    `{"name":"pasta"} extra`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `name=pasta`,
			wantErr: true,
		},
		{
			name:    "empty body",
			body:    ``,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dst payload
			decoder := json.NewDecoder(strings.NewReader(tt.body))

			err := DecodeJSON(&dst, decoder)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeJSON() error = %v", err)
			}
			if dst.Name != tt.want {
				t.Errorf("Name = %q, want %q", dst.Name, tt.want)
			}
		})
	}
}

func TestDecodeJSON_UnknownFields(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	var dst payload
	decoder := json.NewDecoder(strings.NewReader(`{"name":"pasta","surprise":true}`))
	decoder.DisallowUnknownFields()

	if err := DecodeJSON(&dst, decoder); err == nil {
		t.Error("expected unknown field to be rejected")
	}
}
