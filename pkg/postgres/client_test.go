package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", errors.New("dial tcp: connection refused"), true},
		{"shutting down", &pq.Error{Code: "57P01"}, true},
		{"bad password", &pq.Error{Code: "28P01"}, false},
		{"missing database", fmt.Errorf("pinging postgres: %w", &pq.Error{Code: "3D000"}), false},
		{"missing table", &pq.Error{Code: "42P01"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
