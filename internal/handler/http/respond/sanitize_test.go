package respond

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
		{
			name: "anthropic key masked",
			err:  errors.New("auth failed: sk-ant-api03-abc123DEF"),
			want: "auth failed: sk-ant-****",
		},
		{
			name: "openai key masked",
			err:  errors.New("auth failed: sk-abc123def456ghi"),
			want: "auth failed: sk-****",
		},
		{
			name: "finnhub token masked",
			err:  errors.New("GET /api/v1/news?category=general&token=c0ffee123 failed"),
			want: "GET /api/v1/news?category=general&token=**** failed",
		},
		{
			name: "dsn password masked",
			err:  errors.New("connect postgres://signalist:hunter2@db:5432/app failed"),
			want: "connect postgres://signalist:****@db:5432/app failed",
		},
		{
			name: "plain message untouched",
			err:  errors.New("no rows affected"),
			want: "no rows affected",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeError(tt.err))
		})
	}
}
